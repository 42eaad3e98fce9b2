package audit

// ReferenceLookup resolves company and contact ids to display names.
// Unresolvable ids fall back to the raw value in rendered diffs.
type ReferenceLookup interface {
	CompanyName(id string) (string, bool)
	ContactName(id string) (string, bool)
}

// OrderSchema declares the order snapshot fields the history endpoint
// renders. Snapshot keys outside this set are ignored, which is how diffs
// survive removed or renamed columns.
func OrderSchema(refs ReferenceLookup) Schema {
	return NewSchema(
		FieldDescriptor{Name: "reference", Kind: KindScalar},
		FieldDescriptor{Name: "status", Kind: KindScalar},
		FieldDescriptor{Name: "billing_email", Kind: KindScalar},
		FieldDescriptor{Name: "vat_status", Kind: KindScalar},
		FieldDescriptor{Name: "total_cost", Kind: KindScalar},
		FieldDescriptor{Name: "company_id", Kind: KindToOne, Lookup: stringRefLookup(refs.CompanyName)},
		FieldDescriptor{Name: "contact_id", Kind: KindToOne, Lookup: stringRefLookup(refs.ContactName)},
	)
}

func stringRefLookup(byID func(string) (string, bool)) LabelLookup {
	return func(ref any) (string, bool) {
		id, ok := ref.(string)
		if !ok {
			return "", false
		}
		return byID(id)
	}
}
