package carve

// NextCursor returns where scanning resumes after recovering size bytes
// starting at the block aligned offset start: the first block boundary at or
// after the end of the recovered region.
func NextCursor(start, size, blockSize uint64) uint64 {
	blocks := size / blockSize
	if size%blockSize != 0 {
		blocks++
	}
	return start + blocks*blockSize
}
