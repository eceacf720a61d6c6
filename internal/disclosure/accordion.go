package disclosure

// Accordion tracks which top-level record panel is open on the current page.
// Opening one record closes every other. Hint panels inside a record are not
// governed by the accordion.
type Accordion struct {
	open   int
	isOpen bool
}

// Open opens the record with id and closes any other.
func (a *Accordion) Open(id int) {
	a.open = id
	a.isOpen = true
}

// Close closes the record with id if it is the open one.
func (a *Accordion) Close(id int) {
	if a.isOpen && a.open == id {
		a.isOpen = false
	}
}

// Toggle opens id if it is closed, or closes it if it is open, and reports
// whether it ended up open.
func (a *Accordion) Toggle(id int) bool {
	if a.IsOpen(id) {
		a.Close(id)
		return false
	}
	a.Open(id)
	return true
}

// IsOpen reports whether the record with id is open.
func (a *Accordion) IsOpen(id int) bool {
	return a.isOpen && a.open == id
}

// OpenID returns the id of the open record, if any.
func (a *Accordion) OpenID() (int, bool) {
	return a.open, a.isOpen
}

// Reset closes everything. Called when the page is rendered again.
func (a *Accordion) Reset() {
	a.isOpen = false
}
