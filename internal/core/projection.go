package core

// Project renders one Choice per row of doc, in row order, labelled with
// the row's value at field. Rows with no value there get AbsentLabel.
// Selected is always false; Engine.Project fills it in.
func Project(doc *Document, field string) []Choice {
	if doc == nil {
		return nil
	}
	choices := make([]Choice, len(doc.Rows))
	for i, row := range doc.Rows {
		choices[i] = Choice{Index: i, Label: Label(row, field)}
	}
	return choices
}

// Label renders row's value at field for display.
func Label(row Row, field string) string {
	v := row.Get(field)
	if v.IsAbsent() {
		return AbsentLabel
	}
	return v.Display()
}
