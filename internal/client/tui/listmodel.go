package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/staffvault/pdfportal/internal/client/api"
)

// debounceDelay is how long the search input must be idle before its text
// becomes the committed query.
const debounceDelay = 400 * time.Millisecond

// pageSizes are the selectable page sizes, cycled with the s key.
var pageSizes = []int{5, 10, 20, 50}

// debounceElapsedMsg fires when a scheduled debounce window ends. The
// generation lets the list ignore windows superseded by later keystrokes.
type debounceElapsedMsg struct {
	list string
	gen  int
}

// listModel carries the shared state of a paginated, searchable server-side
// list: the current page, the page size, the live search input, and the
// committed (debounced) query that the last fetch actually used.
//
// Two generation counters keep the UI consistent under races. The debounce
// generation invalidates pending debounce timers when a newer keystroke
// arrives. The fetch generation invalidates in-flight fetches when a newer
// one starts, so a slow stale response can never overwrite fresher rows.
type listModel[T any] struct {
	id     string
	Search textinput.Model

	Items []T
	total int

	page  int
	limit int

	committedQuery string
	debounceGen    int
	fetchGen       int
	loading        bool
}

func newListModel[T any](id, placeholder string) listModel[T] {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = "/ "
	input.CharLimit = 120
	return listModel[T]{
		id:     id,
		Search: input,
		page:   1,
		limit:  10,
	}
}

func (m *listModel[T]) Page() int     { return m.page }
func (m *listModel[T]) Limit() int    { return m.limit }
func (m *listModel[T]) Total() int    { return m.total }
func (m *listModel[T]) Query() string { return m.committedQuery }
func (m *listModel[T]) Loading() bool { return m.loading }

// Params returns the query parameters for the current page state.
func (m *listModel[T]) Params() api.ListParams {
	return api.ListParams{Page: m.page, Limit: m.limit, Query: m.committedQuery}
}

// TotalPages is derived from the last known total; an empty result set
// still has one page so the pager never renders "page 1 of 0".
func (m *listModel[T]) TotalPages() int {
	pages := (m.total + m.limit - 1) / m.limit
	if pages < 1 {
		pages = 1
	}
	return pages
}

// QueueDebounce schedules a debounce window for the current input text and
// invalidates any earlier window.
func (m *listModel[T]) QueueDebounce() tea.Cmd {
	m.debounceGen++
	gen := m.debounceGen
	id := m.id
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceElapsedMsg{list: id, gen: gen}
	})
}

// TakeDebounce consumes a debounce message. It returns true when the
// message is current, addressed to this list, and the input text actually
// differs from the committed query; committing resets the page to 1.
func (m *listModel[T]) TakeDebounce(msg debounceElapsedMsg) bool {
	if msg.list != m.id || msg.gen != m.debounceGen {
		return false
	}
	if m.Search.Value() == m.committedQuery {
		return false
	}
	m.committedQuery = m.Search.Value()
	m.page = 1
	return true
}

// BeginFetch marks a new fetch as the only one whose result will be
// accepted, and returns its generation token.
func (m *listModel[T]) BeginFetch() int {
	m.fetchGen++
	m.loading = true
	return m.fetchGen
}

// Accept installs a fetch result. A result carrying a stale generation is
// dropped and the method reports false.
func (m *listModel[T]) Accept(gen int, items []T, total int) bool {
	if gen != m.fetchGen {
		return false
	}
	m.Items = items
	m.total = total
	m.loading = false
	return true
}

// FetchFailed clears the loading flag for the fetch identified by gen.
func (m *listModel[T]) FetchFailed(gen int) bool {
	if gen != m.fetchGen {
		return false
	}
	m.loading = false
	return true
}

// ClampPage pulls the page back into [1, TotalPages] and reports whether it
// moved. A deletion that empties the last page leaves the page out of
// range; the caller refetches when this returns true.
func (m *listModel[T]) ClampPage() bool {
	clamped := m.page
	if max := m.TotalPages(); clamped > max {
		clamped = max
	}
	if clamped < 1 {
		clamped = 1
	}
	if clamped == m.page {
		return false
	}
	m.page = clamped
	return true
}

// NextPage advances one page; reports whether the page changed.
func (m *listModel[T]) NextPage() bool {
	if m.page >= m.TotalPages() {
		return false
	}
	m.page++
	return true
}

// PrevPage goes back one page; reports whether the page changed.
func (m *listModel[T]) PrevPage() bool {
	if m.page <= 1 {
		return false
	}
	m.page--
	return true
}

// ResetPage returns to the first page; reports whether the page changed.
func (m *listModel[T]) ResetPage() bool {
	if m.page == 1 {
		return false
	}
	m.page = 1
	return true
}

// CyclePageSize moves to the next selectable page size and resets to the
// first page.
func (m *listModel[T]) CyclePageSize() {
	for i, size := range pageSizes {
		if size == m.limit {
			m.limit = pageSizes[(i+1)%len(pageSizes)]
			m.page = 1
			return
		}
	}
	m.limit = pageSizes[0]
	m.page = 1
}

// SetPageSize switches to an explicit page size. Sizes outside the
// selectable set are ignored. Changing the size resets to the first page.
func (m *listModel[T]) SetPageSize(size int) bool {
	valid := false
	for _, s := range pageSizes {
		if s == size {
			valid = true
			break
		}
	}
	if !valid || size == m.limit {
		return false
	}
	m.limit = size
	m.page = 1
	return true
}

// GoToPage jumps to a page given as free-form text. Non-numeric input
// means page 1; numeric input is clamped into [1, TotalPages].
func (m *listModel[T]) GoToPage(input string) bool {
	target, err := strconv.Atoi(input)
	if err != nil {
		target = 1
	}
	if target < 1 {
		target = 1
	}
	if max := m.TotalPages(); target > max {
		target = max
	}
	if target == m.page {
		return false
	}
	m.page = target
	return true
}
