package cache

// Origin tags where a returned entity came from.
type Origin string

// Origins surfaced to presentation.
const (
	// OriginAPI means there was no cached entry and the entity was fetched.
	OriginAPI Origin = "api"
	// OriginCache means a fresh cached entry was returned without a fetch.
	OriginCache Origin = "cache"
	// OriginInvalid means a stale cached entry existed and was refetched.
	OriginInvalid Origin = "invalid"
)

// ResolveOrigin maps a cache lookup result to an Origin.
func ResolveOrigin(prior *Entry, fresh bool) Origin {
	switch {
	case prior == nil:
		return OriginAPI
	case fresh:
		return OriginCache
	default:
		return OriginInvalid
	}
}

// Label returns the badge text shown next to an entity.
func (o Origin) Label() string {
	switch o {
	case OriginCache:
		return "FROM CACHE"
	case OriginInvalid:
		return "REFRESHED"
	case OriginAPI:
		return "FROM API"
	default:
		return string(o)
	}
}
