package expander_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/expander"
	"github.com/deca-be/ml-scheduler/internal/feedback"
)

func TestExpander(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Task expander")
}

var _ = Describe("Expand", func() {
	var now time.Time
	var e *expander.Expander
	var rejections []string

	BeforeEach(func() {
		now = time.Date(2026, 7, 31, 9, 0, 0, 0, time.UTC)
		rejections = nil
		e = &expander.Expander{
			Now:                        now,
			Feedback:                   feedback.NewLog(),
			DefaultCavity:              4,
			DefaultCycleAverageSeconds: 10,
			OnReject:                   func(reason string) { rejections = append(rejections, reason) },
		}
	})

	It("produces one candidate per eligible machine", func() {
		orders := []domain.Order{{ID: "o1", Subseries: "A1", Quantity: 400, RawPriority: domain.PriorityNormal}}
		caps := []domain.MachineCapability{
			{Subseries: "A1", Machine: "m1", Cavity: 4, CycleAvgSecond: 10},
			{Subseries: "A1", Machine: "m2", Cavity: 4, CycleAvgSecond: 10},
		}
		tasks := e.Expand(orders, caps)
		Expect(tasks).To(HaveLen(2))
		Expect(tasks[0].DurationSeconds).To(Equal(int64(1000)))
	})

	It("rejects an order with no capable machine", func() {
		orders := []domain.Order{{ID: "o1", Subseries: "Z9", Quantity: 100}}
		tasks := e.Expand(orders, nil)
		Expect(tasks).To(BeEmpty())
		Expect(rejections).To(ConsistOf("no_eligible_machine"))
	})

	It("restricts to IML-capable machines when IML is requested", func() {
		orders := []domain.Order{{ID: "o1", Subseries: "A1", Quantity: 100, IMLRequested: true}}
		caps := []domain.MachineCapability{
			{Subseries: "A1", Machine: "m1", Cavity: 4, CycleAvgSecond: 10, IMLPossible: false},
			{Subseries: "A1", Machine: "m2", Cavity: 4, CycleAvgSecond: 10, IMLPossible: true},
		}
		tasks := e.Expand(orders, caps)
		Expect(tasks).To(HaveLen(1))
		Expect(tasks[0].Machine).To(Equal("m2"))
	})

	It("rejects an IML request with no capable machine", func() {
		orders := []domain.Order{{ID: "o1", Subseries: "A1", Quantity: 100, IMLRequested: true}}
		caps := []domain.MachineCapability{{Subseries: "A1", Machine: "m1", Cavity: 4, CycleAvgSecond: 10, IMLPossible: false}}
		tasks := e.Expand(orders, caps)
		Expect(tasks).To(BeEmpty())
		Expect(rejections).To(ConsistOf("iml_impossible"))
	})

	It("falls back to the default cavity and cycle average when unset", func() {
		orders := []domain.Order{{ID: "o1", Subseries: "A1", Quantity: 40}}
		caps := []domain.MachineCapability{{Subseries: "A1", Machine: "m1"}}
		tasks := e.Expand(orders, caps)
		Expect(tasks).To(HaveLen(1))
		Expect(tasks[0].DefaultsUsed).To(BeTrue())
		Expect(tasks[0].DurationSeconds).To(Equal(int64(100)))
	})

	It("defaults an unset priority to NormalDefault", func() {
		orders := []domain.Order{{ID: "o1", Subseries: "A1", Quantity: 40}}
		caps := []domain.MachineCapability{{Subseries: "A1", Machine: "m1", Cavity: 4, CycleAvgSecond: 10}}
		tasks := e.Expand(orders, caps)
		Expect(tasks[0].AdjustedPriority).To(Equal(domain.PriorityNormalDefault))
	})

	It("flags a task whose due date cannot be met even starting now", func() {
		orders := []domain.Order{{
			ID: "o1", Subseries: "A1", Quantity: 4000,
			DueDate: now.Add(time.Hour),
		}}
		caps := []domain.MachineCapability{{Subseries: "A1", Machine: "m1", Cavity: 4, CycleAvgSecond: 10}}
		tasks := e.Expand(orders, caps)
		Expect(tasks[0].IsImpossibleDeadline).To(BeTrue())
	})

	It("flags a task whose due date has already passed", func() {
		orders := []domain.Order{{
			ID: "o1", Subseries: "A1", Quantity: 40,
			DueDate: now.Add(-time.Hour),
		}}
		caps := []domain.MachineCapability{{Subseries: "A1", Machine: "m1", Cavity: 4, CycleAvgSecond: 10}}
		tasks := e.Expand(orders, caps)
		Expect(tasks[0].IsPastDue).To(BeTrue())
	})
})
