package usecase

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// conservationScanPage bounds each List page while replaying the log.
	conservationScanPage = 1000
)
