package paging

// residencyList holds the resident pages, oldest first. The front is the
// next page to evict.
type residencyList struct {
	pages []int
}

func newResidencyList(pages []int) residencyList {
	l := residencyList{pages: make([]int, 0, len(pages))}
	for _, p := range pages {
		l.pushBack(p)
	}

	return l
}

func (l *residencyList) pushBack(pageNo int) {
	if l.contains(pageNo) {
		panic("page is already resident")
	}

	l.pages = append(l.pages, pageNo)
}

func (l *residencyList) popFront() int {
	if len(l.pages) == 0 {
		panic("no resident page to evict")
	}

	victim := l.pages[0]
	l.pages = l.pages[1:]

	return victim
}

func (l *residencyList) contains(pageNo int) bool {
	for _, p := range l.pages {
		if p == pageNo {
			return true
		}
	}

	return false
}

func (l *residencyList) len() int {
	return len(l.pages)
}

func (l *residencyList) snapshot() []int {
	pages := make([]int, len(l.pages))
	copy(pages, l.pages)

	return pages
}
