package export

// Dataset defines tabular export content: a header label sequence plus rows of
// display-formatted fields in matching order. Renderers do not interpret the
// values; all formatting happens before a Dataset is built.
type Dataset struct {
	Headers []string
	Rows    [][]string
}
