package constraints_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deca-be/ml-scheduler/internal/constraints"
	"github.com/deca-be/ml-scheduler/internal/cp"
	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/intervals"
)

func TestConstraints(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Constraint injector")
}

var _ = Describe("BuildMachineConstraints", func() {
	It("forces both candidates present on the same machine apart and induces a changeover", func() {
		now := time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC)
		model := cp.NewModel()
		b := intervals.NewBuilder(model, now)

		tasks := []domain.CandidateTask{
			{ID: "o1⧧m1", OrderID: "o1", Machine: "m1", Subseries: "A1", DurationSeconds: 100},
			{ID: "o2⧧m1", OrderID: "o2", Machine: "m1", Subseries: "B2", DurationSeconds: 100},
		}
		Expect(b.BuildTaskIntervals(tasks)).To(Succeed())
		for _, t := range b.MachineIntervals["m1"] {
			t.ExtendedEnd = t.Interval.End // no weekend extension in this test
		}

		inj := constraints.NewInjector(b, now)
		inj.BuildMachineConstraints(nil)

		// force both present since each order only has one candidate here
		t1 := b.MachineIntervals["m1"][0]
		t2 := b.MachineIntervals["m1"][1]

		sol, err := model.Solve(context.Background(), cp.Options{MaxDuration: time.Second, Workers: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(sol.Status).To(BeElementOf(cp.StatusOptimal, cp.StatusFeasible))
		Expect(sol.BoolValue(t1.Interval.Present)).To(BeTrue())
		Expect(sol.BoolValue(t2.Interval.Present)).To(BeTrue())

		// Different subseries always costs an "ombouw" changeover; the two
		// tasks cannot be back-to-back with zero gap.
		s1, e1 := sol.Value(t1.Interval.Start), sol.Value(t1.Interval.End)
		s2, e2 := sol.Value(t2.Interval.Start), sol.Value(t2.Interval.End)
		gap := int64(0)
		if s2 >= e1 {
			gap = s2 - e1
		} else {
			gap = s1 - e2
		}
		Expect(gap).To(BeNumerically(">=", 14400))
		Expect(inj.OmbouwPreps).To(HaveLen(2)) // one per ordered direction
	})

	It("never creates a prep interval for a matching subseries and IML variant", func() {
		now := time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC)
		model := cp.NewModel()
		b := intervals.NewBuilder(model, now)
		tasks := []domain.CandidateTask{
			{ID: "o1⧧m1", OrderID: "o1", Machine: "m1", Subseries: "A1", DurationSeconds: 100, IMLPossible: true},
			{ID: "o2⧧m1", OrderID: "o2", Machine: "m1", Subseries: "A1", DurationSeconds: 100, IMLPossible: true},
		}
		Expect(b.BuildTaskIntervals(tasks)).To(Succeed())

		inj := constraints.NewInjector(b, now)
		inj.BuildMachineConstraints(nil)

		Expect(inj.OmbouwPreps).To(BeEmpty())
		Expect(inj.Ombouw2Preps).To(BeEmpty())
	})

	It("builds a shorter ombouw2 changeover when only the IML variant differs", func() {
		now := time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC)
		model := cp.NewModel()
		b := intervals.NewBuilder(model, now)
		tasks := []domain.CandidateTask{
			{ID: "o1⧧m1", OrderID: "o1", Machine: "m1", Subseries: "A1", DurationSeconds: 100, IMLPossible: false},
			{ID: "o2⧧m1", OrderID: "o2", Machine: "m1", Subseries: "A1", DurationSeconds: 100, IMLPossible: true},
		}
		Expect(b.BuildTaskIntervals(tasks)).To(Succeed())

		inj := constraints.NewInjector(b, now)
		inj.BuildMachineConstraints(nil)

		Expect(inj.Ombouw2Preps).To(HaveLen(2))
		Expect(inj.OmbouwPreps).To(BeEmpty())
	})
})
