package dataprep

// EncodeLabels maps categories to float codes in order of first appearance
// and returns the codes together with the ordered category list.
func EncodeLabels(values []string) ([]float64, []string) {
	index := map[string]int{}
	var classes []string
	codes := make([]float64, len(values))
	for i, v := range values {
		code, ok := index[v]
		if !ok {
			code = len(classes)
			index[v] = code
			classes = append(classes, v)
		}
		codes[i] = float64(code)
	}
	return codes, classes
}
