//go:build !integration

package programstore_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alex-galey/coach-mcp/internal/infrastructure/programstore"
	"github.com/alex-galey/coach-mcp/internal/program"
)

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ = Describe("Store", func() {
	var (
		path  string
		store *programstore.Store
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "program.yaml")
		store = programstore.NewStore(path, createTestLogger())
	})

	Describe("Save and Load", func() {
		It("should round-trip a populated program", func() {
			p := program.New("Strength Block")
			p.Weeks = []program.Week{
				{
					ID:     "week-1",
					Number: 1,
					Sessions: []program.Session{
						{
							ID:    "sess-push",
							Title: "Push Day",
							Exercises: []program.Exercise{
								{
									ID:   "ex-bench",
									Name: "Bench Press",
									Sets: []program.Set{
										{ID: "set-1", Prescribed: program.SetMetrics{Reps: 5, Weight: 100, RIR: 2}},
									},
								},
							},
						},
					},
				},
			}

			Expect(store.Save(p)).To(Succeed())

			loaded, err := store.Load()
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded.ID).To(Equal(p.ID))
			Expect(loaded.Name).To(Equal("Strength Block"))
			Expect(loaded.Weeks).To(HaveLen(1))
			Expect(loaded.Weeks[0].Sessions[0].Exercises[0].Sets[0].Prescribed.Weight).To(Equal(100.0))
		})

		It("should create missing parent directories", func() {
			nested := filepath.Join(GinkgoT().TempDir(), "coach", "data", "program.yaml")
			store = programstore.NewStore(nested, createTestLogger())

			Expect(store.Save(program.New("Block"))).To(Succeed())
			Expect(nested).To(BeAnExistingFile())
		})

		It("should fail to load a missing file", func() {
			_, err := store.Load()
			Expect(err).To(HaveOccurred())
		})

		It("should refuse a file that breaks program consistency", func() {
			p := program.New("Broken")
			p.Weeks = []program.Week{
				{ID: "week-1", Number: 1},
				{ID: "week-1", Number: 2},
			}
			Expect(store.Save(p)).To(Succeed())

			_, err := store.Load()
			Expect(err).To(MatchError(program.ErrDuplicateID))
		})

		It("should refuse unparseable content", func() {
			Expect(os.WriteFile(path, []byte("{not yaml"), 0o644)).To(Succeed())

			_, err := store.Load()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LoadOrCreate", func() {
		It("should create a fresh program when no file exists", func() {
			p, err := store.LoadOrCreate("New Block")

			Expect(err).ToNot(HaveOccurred())
			Expect(p.Name).To(Equal("New Block"))
			Expect(p.Version).To(Equal(uint64(0)))
			Expect(path).To(BeAnExistingFile())
		})

		It("should load the existing program on later calls", func() {
			first, err := store.LoadOrCreate("New Block")
			Expect(err).ToNot(HaveOccurred())

			second, err := store.LoadOrCreate("Ignored Name")
			Expect(err).ToNot(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))
			Expect(second.Name).To(Equal("New Block"))
		})
	})
})
