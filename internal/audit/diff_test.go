package audit

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestAudit(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Audit Module Suite")
}

var _ = ginkgo.Describe("DiffVersions", func() {
	var schema Schema

	ginkgo.BeforeEach(func() {
		schema = NewSchema(
			FieldDescriptor{Name: "reference", Kind: KindScalar},
			FieldDescriptor{Name: "billing_email", Kind: KindScalar},
			FieldDescriptor{Name: "total_cost", Kind: KindScalar},
			FieldDescriptor{Name: "company_id", Kind: KindToOne, Lookup: func(ref any) (string, bool) {
				if ref == "c-1" {
					return "Acme Ltd", true
				}
				return "", false
			}},
			FieldDescriptor{Name: "team_ids", Kind: KindToMany, Lookup: func(ref any) (string, bool) {
				if ref == "t-1" {
					return "Team One", true
				}
				return "", false
			}},
		)
	})

	ginkgo.Context("when a scalar field changes", func() {
		ginkgo.It("should report an [old, new] pair", func() {
			old := map[string]any{"billing_email": "old@example.com"}
			new_ := map[string]any{"billing_email": "new@example.com"}

			changes := DiffVersions(schema, old, new_)

			gomega.Expect(changes).To(gomega.HaveLen(1))
			gomega.Expect(changes["billing_email"]).To(gomega.Equal([]any{"old@example.com", "new@example.com"}))
		})
	})

	ginkgo.Context("when nothing changes", func() {
		ginkgo.It("should return no entries", func() {
			snapshot := map[string]any{"reference": "ORD-1", "total_cost": int64(1000)}

			changes := DiffVersions(schema, snapshot, snapshot)

			gomega.Expect(changes).To(gomega.BeEmpty())
		})
	})

	ginkgo.Context("blank equivalence", func() {
		ginkgo.It("should not report nil becoming empty string", func() {
			old := map[string]any{"billing_email": nil}
			new_ := map[string]any{"billing_email": ""}

			gomega.Expect(DiffVersions(schema, old, new_)).To(gomega.BeEmpty())
		})

		ginkgo.It("should not report empty string becoming nil", func() {
			old := map[string]any{"billing_email": ""}
			new_ := map[string]any{"billing_email": nil}

			gomega.Expect(DiffVersions(schema, old, new_)).To(gomega.BeEmpty())
		})

		ginkgo.It("should not report a field absent before and blank now", func() {
			old := map[string]any{}
			new_ := map[string]any{"billing_email": ""}

			gomega.Expect(DiffVersions(schema, old, new_)).To(gomega.BeEmpty())
		})

		ginkgo.It("should report blank becoming a real value", func() {
			old := map[string]any{"billing_email": ""}
			new_ := map[string]any{"billing_email": "new@example.com"}

			changes := DiffVersions(schema, old, new_)

			gomega.Expect(changes["billing_email"]).To(gomega.Equal([]any{"", "new@example.com"}))
		})
	})

	ginkgo.Context("when a field only exists in the new snapshot", func() {
		ginkgo.It("should report nil as the old value", func() {
			old := map[string]any{}
			new_ := map[string]any{"reference": "ORD-1"}

			changes := DiffVersions(schema, old, new_)

			gomega.Expect(changes["reference"]).To(gomega.Equal([]any{nil, "ORD-1"}))
		})
	})

	ginkgo.Context("when a field only exists in the old snapshot", func() {
		ginkgo.It("should drop it from the diff", func() {
			old := map[string]any{"reference": "ORD-1", "billing_email": "a@example.com"}
			new_ := map[string]any{"reference": "ORD-1"}

			gomega.Expect(DiffVersions(schema, old, new_)).To(gomega.BeEmpty())
		})
	})

	ginkgo.Context("when a snapshot carries a field unknown to the schema", func() {
		ginkgo.It("should drop it from the diff", func() {
			old := map[string]any{"legacy_column": "a"}
			new_ := map[string]any{"legacy_column": "b"}

			gomega.Expect(DiffVersions(schema, old, new_)).To(gomega.BeEmpty())
		})
	})

	ginkgo.Context("to-one reference rendering", func() {
		ginkgo.It("should render resolvable references as labels", func() {
			old := map[string]any{"company_id": nil}
			new_ := map[string]any{"company_id": "c-1"}

			changes := DiffVersions(schema, old, new_)

			gomega.Expect(changes["company_id"]).To(gomega.Equal([]any{nil, "Acme Ltd"}))
		})

		ginkgo.It("should fall back to the raw value when unresolvable", func() {
			old := map[string]any{"company_id": "c-1"}
			new_ := map[string]any{"company_id": "c-missing"}

			changes := DiffVersions(schema, old, new_)

			gomega.Expect(changes["company_id"]).To(gomega.Equal([]any{"Acme Ltd", "c-missing"}))
		})
	})

	ginkgo.Context("to-many reference rendering", func() {
		ginkgo.It("should render each element, falling back per element", func() {
			old := map[string]any{"team_ids": []any{}}
			new_ := map[string]any{"team_ids": []any{"t-1", "t-2"}}

			changes := DiffVersions(schema, old, new_)

			gomega.Expect(changes["team_ids"]).To(gomega.HaveLen(2))
			gomega.Expect(changes["team_ids"][0]).To(gomega.Equal([]any{}))
			gomega.Expect(changes["team_ids"][1]).To(gomega.Equal([]any{"Team One", "t-2"}))
		})
	})

	ginkgo.Context("when rendering makes both sides blank", func() {
		ginkgo.It("should drop the entry", func() {
			lookupBlank := func(ref any) (string, bool) { return "", true }
			blankSchema := NewSchema(
				FieldDescriptor{Name: "owner_id", Kind: KindToOne, Lookup: lookupBlank},
			)

			old := map[string]any{"owner_id": "u-1"}
			new_ := map[string]any{"owner_id": "u-2"}

			gomega.Expect(DiffVersions(blankSchema, old, new_)).To(gomega.BeEmpty())
		})
	})
})
