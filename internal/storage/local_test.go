package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestStorage(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Storage Suite")
}

var _ = ginkgo.Describe("Local", func() {
	var (
		baseDir string
		store   *Local
	)

	ginkgo.BeforeEach(func() {
		baseDir = ginkgo.GinkgoT().TempDir()
		store = NewLocal(baseDir)
	})

	ginkgo.It("should read an object from its bucket directory", func() {
		bucketDir := filepath.Join(baseDir, "maintenance")
		gomega.Expect(os.MkdirAll(bucketDir, 0o755)).To(gomega.Succeed())
		path := filepath.Join(bucketDir, "orders.csv")
		gomega.Expect(os.WriteFile(path, []byte("id,email\n"), 0o644)).To(gomega.Succeed())

		reader, err := store.Get(context.Background(), "maintenance", "orders.csv")

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		defer reader.Close()
		content, err := io.ReadAll(reader)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(string(content)).To(gomega.Equal("id,email\n"))
	})

	ginkgo.It("should resolve keys with path separators", func() {
		dir := filepath.Join(baseDir, "maintenance", "2024", "03")
		gomega.Expect(os.MkdirAll(dir, 0o755)).To(gomega.Succeed())
		gomega.Expect(os.WriteFile(filepath.Join(dir, "run.csv"), []byte("id\n"), 0o644)).To(gomega.Succeed())

		reader, err := store.Get(context.Background(), "maintenance", "2024/03/run.csv")

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		reader.Close()
	})

	ginkgo.It("should report a missing object as not found", func() {
		_, err := store.Get(context.Background(), "maintenance", "missing.csv")

		gomega.Expect(err).To(gomega.MatchError(ErrObjectNotFound))
	})
})
