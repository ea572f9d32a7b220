package constraints_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deca-be/ml-scheduler/internal/constraints"
	"github.com/deca-be/ml-scheduler/internal/cp"
	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/intervals"
)

var _ = Describe("BuildWeekendExtensions", func() {
	It("builds one Inside boolean per forbidden weekend day and an ExtendedEnd variable", func() {
		now := time.Date(2026, 7, 27, 0, 0, 0, 0, time.UTC) // a Monday
		model := cp.NewModel()
		b := intervals.NewBuilder(model, now)

		tasks := []domain.CandidateTask{{ID: "o1⧧m1", OrderID: "o1", Machine: "m1", DurationSeconds: 100}}
		Expect(b.BuildTaskIntervals(tasks)).To(Succeed())

		inj := constraints.NewInjector(b, now)
		inj.BuildWeekendExtensions(nil)

		task := b.MachineIntervals["m1"][0]
		expected := b.ForbiddenWeekendDays("m1", nil)
		Expect(task.WeekendExtensions).To(HaveLen(len(expected)))
		Expect(task.ExtendedEnd.Domain().Min()).To(Equal(int64(0)))
	})

	It("excludes an explicitly available weekend day from the extension set", func() {
		now := time.Date(2026, 7, 27, 0, 0, 0, 0, time.UTC)
		model := cp.NewModel()
		b := intervals.NewBuilder(model, now)
		tasks := []domain.CandidateTask{{ID: "o1⧧m1", OrderID: "o1", Machine: "m1", DurationSeconds: 100}}
		Expect(b.BuildTaskIntervals(tasks)).To(Succeed())

		nextSaturday := now.AddDate(0, 0, 5)
		inj := constraints.NewInjector(b, now)
		inj.BuildWeekendExtensions([]domain.AvailableWeekendDay{{Machine: "m1", Date: nextSaturday}})

		task := b.MachineIntervals["m1"][0]
		for _, we := range task.WeekendExtensions {
			Expect(we.Day).NotTo(Equal(nextSaturday))
		}
	})
})
