package domain

// MetadataRow holds the user strings of one object, in attribute order.
// An object without user strings yields an empty, non-nil row.
type MetadataRow []UserString

// ExtractMetadata walks the object table in order and returns one row per
// object, so len(result) == doc.Objects().Count().
func ExtractMetadata(doc *Document) []MetadataRow {
	if doc == nil {
		return []MetadataRow{}
	}

	objects := doc.Objects()
	n := objects.Count()
	rows := make([]MetadataRow, 0, n)
	for i := 0; i < n; i++ {
		obj, ok := objects.Get(i)
		if !ok {
			rows = append(rows, MetadataRow{})
			continue
		}
		rows = append(rows, MetadataRow(obj.Attributes.UserStrings()))
	}
	return rows
}
