package carve

// Progress receives the scan position as the engine moves through the
// source. It is purely informational.
type Progress interface {
	Start(total int64)
	Update(pos int64)
	Finish()
}

// NopProgress ignores everything.
type NopProgress struct{}

func (NopProgress) Start(int64)  {}
func (NopProgress) Update(int64) {}
func (NopProgress) Finish()      {}
