package runner_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deca-be/ml-scheduler/internal/domain"
	"github.com/deca-be/ml-scheduler/internal/runner"
	ftest "github.com/deca-be/ml-scheduler/internal/test"
)

var _ = Describe("Concrete scenarios (spec §8)", func() {
	It("schedules scenario 1 (single order, single machine) with no info code", func() {
		fake := ftest.Scenario1SingleOrderSingleMachine()
		r := runner.New(fake, ftest.Settings())
		res, err := r.CalculatePlanning(context.Background(), 2*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.ScheduledOrders).To(HaveLen(1))
		Expect(res.ScheduledOrders[0].InfoCode).To(Equal(domain.InfoNormal))
	})

	It("induces an ombouw2 changeover for scenario 2 (IML swap)", func() {
		fake := ftest.Scenario2IMLSwap()
		r := runner.New(fake, ftest.Settings())
		res, err := r.CalculatePlanning(context.Background(), 2*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.ScheduledOrders).To(HaveLen(2))

		var ombouw2 []domain.PreparationInterval
		for _, p := range res.PreparationIntervals {
			if p.Kind == domain.PrepKindOmbouw2 {
				ombouw2 = append(ombouw2, p)
			}
		}
		Expect(ombouw2).To(HaveLen(1))
	})

	It("respects the reduced changeover capacity for scenario 3 (subseries swap under deficit)", func() {
		now := ftest.Now()
		fake := ftest.Scenario3SubseriesSwapUnderDeficit(now)
		r := runner.New(fake, ftest.Settings())
		res, err := r.CalculatePlanning(context.Background(), 2*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.ScheduledOrders).To(HaveLen(2))
		Expect(res.PreparationIntervals).To(HaveLen(1))
		Expect(res.PreparationIntervals[0].Kind).To(Equal(domain.PrepKindOmbouw))
	})

	It("schedules a multi-day task for scenario 4 without the hard-blocker band making it infeasible", func() {
		fake := ftest.Scenario4ForbiddenWeekendInside()
		r := runner.New(fake, ftest.Settings())
		res, err := r.CalculatePlanning(context.Background(), 3*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.ScheduledOrders).To(HaveLen(1))
		// This task (40000 units * 10s / 4 cavity = 100000s ≈ 27.8h) is
		// longer than the ~7-hour 06:00-13:00 window the hard-blocker band
		// leaves free each day. CalculatePlanning uses the real wall clock
		// internally, so which weekday it actually spans isn't
		// deterministic here — exact weekend-extension behavior is covered
		// at the unit level in constraints/weekend_test.go. This is a
		// feasibility smoke test: buildNoOverlap must not fold the
		// blocker band into the machine's no-overlap set, or a task like
		// this could never be scheduled at all.
		row := res.ScheduledOrders[0]
		Expect(row.End.After(row.Start)).To(BeTrue())
	})

	It("tags scenario 5 (past-due normal order) with InfoPastDue", func() {
		now := ftest.Now()
		fake := ftest.Scenario5PastDueNormal(now)
		r := runner.New(fake, ftest.Settings())
		res, err := r.CalculatePlanning(context.Background(), 2*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.ScheduledOrders).To(HaveLen(1))
		Expect(res.ScheduledOrders[0].InfoCode).To(Equal(domain.InfoPastDue))
	})

	It("schedules scenario 6 (emergency co-resident with running) without conflict", func() {
		fake := ftest.Scenario6EmergencyCoResidentWithRunning()
		r := runner.New(fake, ftest.Settings())
		res, err := r.CalculatePlanning(context.Background(), 2*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.ScheduledOrders).To(HaveLen(2))

		var emergency, running *domain.ScheduledOrder
		for i := range res.ScheduledOrders {
			so := &res.ScheduledOrders[i]
			if so.OrderID == "order-1" {
				emergency = so
			} else {
				running = so
			}
		}
		Expect(emergency).NotTo(BeNil())
		Expect(running).NotTo(BeNil())
		// Sharing one machine, the two chosen tasks must not overlap.
		noOverlap := !running.Start.Before(emergency.End) || !emergency.Start.Before(running.End)
		Expect(noOverlap).To(BeTrue())
	})
})
