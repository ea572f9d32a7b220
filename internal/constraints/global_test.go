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

var _ = Describe("BuildGlobalConstraints", func() {
	It("restricts every ombouw prep's start domain to the allowed swap window", func() {
		now := time.Date(2026, 7, 27, 6, 0, 0, 0, time.UTC) // a Monday morning
		model := cp.NewModel()
		b := intervals.NewBuilder(model, now)

		tasks := []domain.CandidateTask{
			{ID: "o1⧧m1", OrderID: "o1", Machine: "m1", Subseries: "A1", DurationSeconds: 100},
			{ID: "o2⧧m1", OrderID: "o2", Machine: "m1", Subseries: "B2", DurationSeconds: 100},
		}
		Expect(b.BuildTaskIntervals(tasks)).To(Succeed())
		b.BuildAllowedSwapStartDomain(nil)

		inj := constraints.NewInjector(b, now)
		inj.BuildMachineConstraints(nil)
		Expect(inj.OmbouwPreps).NotTo(BeEmpty())

		inj.BuildGlobalConstraints(nil)

		for _, p := range inj.OmbouwPreps {
			d := p.Start.Domain()
			Expect(d.IsEmpty()).To(BeFalse())
			Expect(d.Ranges()).To(Equal(cp.NewDomainFromRanges(b.AllowedSwapStartRanges).Ranges()))
			for _, r := range d.Ranges() {
				Expect(r[0]).To(BeNumerically(">=", int64(0)))
			}
		}
	})

	It("builds the changeover cumulative over ombouw preps and capacity-reduction intervals without panicking", func() {
		now := time.Date(2026, 7, 27, 6, 0, 0, 0, time.UTC)
		model := cp.NewModel()
		b := intervals.NewBuilder(model, now)
		tasks := []domain.CandidateTask{
			{ID: "o1⧧m1", OrderID: "o1", Machine: "m1", Subseries: "A1", DurationSeconds: 100},
			{ID: "o2⧧m1", OrderID: "o2", Machine: "m1", Subseries: "B2", DurationSeconds: 100},
		}
		Expect(b.BuildTaskIntervals(tasks)).To(Succeed())
		b.BuildAllowedSwapStartDomain(nil)
		b.BuildCapacityReductionIntervals([]domain.TechnicianAvailabilityChange{
			{Date: now.AddDate(0, 0, 1), Available: 1},
		}, 3)

		inj := constraints.NewInjector(b, now)
		inj.BuildMachineConstraints(nil)
		inj.BuildGlobalConstraints(nil)

		// buildChangeoverCapacity must not panic building an empty/zero
		// model: combined intervals exist from both preps and the
		// capacity-reduction row.
		Expect(len(inj.OmbouwPreps) + len(b.CapacityReductionIntervals)).To(BeNumerically(">", 0))
	})
})
