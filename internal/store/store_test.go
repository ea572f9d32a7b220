package store_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/feedback"
	"github.com/deca-be/ml-scheduler/internal/store"
)

func TestStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fake store")
}

var _ = Describe("TechnicianAvailability", func() {
	It("keeps the minimum available count per date", func() {
		day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
		f := store.NewFake()
		f.TechnicianRows = []domain.TechnicianAvailabilityChange{
			{Date: day, Available: 2},
			{Date: day.Add(3 * time.Hour), Available: 1},
			{Date: day, Available: 3},
		}

		rows, err := f.TechnicianAvailability(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Available).To(Equal(int64(1)))
	})
})

var _ = Describe("SubseriesBlackouts", func() {
	It("discards rows already in the past", func() {
		f := store.NewFake()
		f.BlackoutRows = []domain.SubseriesBlackout{
			{Subseries: "old", Start: time.Now().Add(-48 * time.Hour), End: time.Now().Add(-24 * time.Hour)},
			{Subseries: "future", Start: time.Now().Add(time.Hour), End: time.Now().Add(48 * time.Hour)},
		}

		rows, err := f.SubseriesBlackouts(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Subseries).To(Equal("future"))
	})
})

var _ = Describe("WriteLog retention", func() {
	It("trims to the retention count, keeping the most recent entries", func() {
		f := store.NewFake()
		ctx := context.Background()
		for i := 0; i < 5; i++ {
			Expect(f.WriteLog(ctx, feedback.NewTree("run", time.Now()), 3)).To(Succeed())
		}
		Expect(f.WrittenLogs).To(HaveLen(3))
	})
})

var _ = Describe("ReplacePlanning and WriteFeedback", func() {
	It("stores exactly what was written", func() {
		f := store.NewFake()
		ctx := context.Background()
		scheduled := []domain.ScheduledOrder{{OrderID: "o1", Machine: "m1"}}
		prep := []domain.PreparationInterval{{Machine: "m1", Kind: domain.PrepKindOmbouw}}
		Expect(f.ReplacePlanning(ctx, scheduled, prep)).To(Succeed())
		Expect(f.WrittenScheduled).To(Equal(scheduled))
		Expect(f.WrittenPrep).To(Equal(prep))

		Expect(f.WriteFeedback(ctx, map[string]string{"1": "hi"})).To(Succeed())
		Expect(f.WrittenFeedback).To(Equal(map[string]string{"1": "hi"}))
	})
})
