package level

// Observer is notified when a level reaches a terminal condition.
// Callbacks run on the level's apply goroutine, one at a time and in
// snapshot order. They may call Stop but must not call Start or block on
// further transitions being applied.
type Observer interface {
	LevelWon()
	LevelLost()
}

// Funcs adapts a pair of functions to Observer. Use a pointer so the
// observer can later be removed.
type Funcs struct {
	Won  func()
	Lost func()
}

// NewObserver returns an Observer calling won and lost. Either may be nil.
func NewObserver(won, lost func()) *Funcs {
	return &Funcs{Won: won, Lost: lost}
}

func (f *Funcs) LevelWon() {
	if f.Won != nil {
		f.Won()
	}
}

func (f *Funcs) LevelLost() {
	if f.Lost != nil {
		f.Lost()
	}
}
