package tui

// ViewState is the screen a model is showing.
type ViewState int

const (
	// ViewStateLoading waits for data.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the list.
	ViewStateList
	// ViewStateDetail shows one card.
	ViewStateDetail
	// ViewStateError shows a fatal error.
	ViewStateError
	// ViewStateQuitting is terminal.
	ViewStateQuitting
)

// Layout defaults used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
	minHeight     = 5
	headerHeight  = 3
)
