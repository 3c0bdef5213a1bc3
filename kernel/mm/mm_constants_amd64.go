package mm

const (
	// PageShift is equal to log2(PageSize).
	PageShift = 12

	// PageSize defines the system's page size in bytes.
	PageSize = Size(1 << PageShift)
)
