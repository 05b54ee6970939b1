package sweep_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/covkin/internal/analysis"
	"github.com/san-kum/covkin/internal/dynamo"
	"github.com/san-kum/covkin/internal/experiment"
	"github.com/san-kum/covkin/internal/kinetics"
	"github.com/san-kum/covkin/internal/sweep"
	"github.com/san-kum/covkin/internal/telemetry"
)

var kinactValues = []float64{0.0005, 0.0011, 0.005, 0.01}

func kinactTemplate() experiment.Config {
	return experiment.Config{
		Variant: "basic-reordered",
		Params:  kinetics.NeratinibParams(),
		Initial: kinetics.SensitivityInitial(),
		Domain:  dynamo.TimeDomain{Start: 0, End: 7200, Samples: 800},
	}
}

func kinactCases() []sweep.Case {
	tmpl := kinactTemplate()
	return sweep.SensitivityCases(tmpl.Params, tmpl.Initial, sweep.Single("kinact"), kinactValues)
}

var _ = Describe("Cases", func() {
	It("builds inhibitor cases in table order without touching the base", func() {
		base := kinetics.NeratinibParams()
		initial := kinetics.ComparisonInitial()
		cases := sweep.InhibitorCases(base, initial, kinetics.Inhibitors())

		Expect(cases).To(HaveLen(6))
		Expect(cases[0].Label).To(Equal("CI-1033"))
		Expect(cases[5].Label).To(Equal("WZ-4002"))
		Expect(cases[1].Params).To(HaveKeyWithValue("koff", 1.1))
		Expect(cases[1].Params).To(HaveKeyWithValue("kon", kinetics.SharedKon))

		cases[0].Params["kon"] = 0
		cases[0].Initial[kinetics.E] = 1
		Expect(base).To(HaveKeyWithValue("kon", 100.0))
		Expect(base).To(HaveKeyWithValue("kinact", 0.0011))
		Expect(cases[1].Params).To(HaveKeyWithValue("kon", 100.0))
		Expect(initial).To(HaveKeyWithValue(kinetics.E, 0.02))
	})

	It("labels sensitivity cases by value", func() {
		cases := kinactCases()
		Expect(cases).To(HaveLen(4))
		for i, c := range cases {
			Expect(c.Value).To(Equal(kinactValues[i]))
			Expect(c.Params).To(HaveKeyWithValue("kinact", kinactValues[i]))
		}
		Expect(cases[1].Label).To(Equal("kinact=0.0011"))
	})

	It("expands the turnover proxy into all four constants", func() {
		p := sweep.LookupParameter("k_turnover")
		Expect(p.Targets).To(ConsistOf("k_syn_E", "k_deg_E", "k_syn_EI_cov", "k_deg_EI_cov"))

		got := p.Apply(kinetics.RedoxTurnoverParams(), 1.2e-5)
		for _, name := range p.Targets {
			Expect(got).To(HaveKeyWithValue(name, 1.2e-5))
		}
		Expect(got).To(HaveKeyWithValue("k_sulfen", 1.1e-4))
		Expect(sweep.LookupParameter("ksub").Targets).To(Equal([]string{"ksub"}))
	})
})

var _ = Describe("Runner", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("matches a direct run for every sensitivity value", func() {
		report := sweep.NewRunner(kinactTemplate()).Run(ctx, kinactCases())
		Expect(report.Err()).NotTo(HaveOccurred())

		for i, v := range kinactValues {
			cfg := kinactTemplate()
			cfg.Params = cfg.Params.With("kinact", v)
			direct, err := experiment.Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())

			got := report.Outcomes[i].Trajectory
			Expect(got.Params).To(HaveKeyWithValue("kinact", v))
			Expect(got.Times).To(Equal(direct.Times))
			Expect(got.States).To(Equal(direct.States))
		}
	})

	It("gives identical results sequentially and concurrently", func() {
		seq := sweep.NewRunner(kinactTemplate()).Run(ctx, kinactCases())
		par := sweep.NewRunner(kinactTemplate(), sweep.WithWorkers(4)).Run(ctx, kinactCases())

		Expect(seq.Err()).NotTo(HaveOccurred())
		Expect(par.Err()).NotTo(HaveOccurred())
		for i := range seq.Outcomes {
			Expect(par.Outcomes[i].Label).To(Equal(seq.Outcomes[i].Label))
			Expect(par.Outcomes[i].Trajectory.States).To(Equal(seq.Outcomes[i].Trajectory.States))
		}
	})

	It("keeps going when a case fails", func() {
		cases := kinactCases()
		cases[2].Params["koff"] = -1

		var events []sweep.Event
		recorder := telemetry.New()
		report := sweep.NewRunner(kinactTemplate(),
			sweep.WithWorkers(2),
			sweep.WithRecorder(recorder),
			sweep.WithObserver(func(ev sweep.Event) { events = append(events, ev) }),
		).Run(ctx, cases)

		Expect(report.Succeeded()).To(Equal(3))
		Expect(report.Failed()).To(HaveLen(1))
		Expect(report.Outcomes[2].Trajectory).To(BeNil())
		Expect(report.Outcomes[3].Trajectory).NotTo(BeNil())

		err := report.Err()
		Expect(errors.Is(err, dynamo.ErrInvalidParameter)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("kinact=0.005"))

		Expect(report.Trajectories()[2]).To(BeNil())
		Expect(events).To(HaveLen(8))
		counts := map[sweep.Status]int{}
		for _, ev := range events {
			counts[ev.Status]++
		}
		Expect(counts).To(Equal(map[sweep.Status]int{
			sweep.StatusStarted: 4,
			sweep.StatusDone:    3,
			sweep.StatusFailed:  1,
		}))
		Expect(telemetry.Classify(report.Outcomes[2].Err)).To(Equal(telemetry.OutcomeInvalid))
	})

	It("attaches partial trajectories to integration failures", func() {
		tmpl := kinactTemplate()
		tmpl.Solver.MaxSteps = 5
		report := sweep.NewRunner(tmpl).Run(ctx, kinactCases()[:1])

		out := report.Outcomes[0]
		Expect(errors.Is(out.Err, dynamo.ErrMaxSteps)).To(BeTrue())
		Expect(out.Partial).NotTo(BeNil())
		Expect(out.Partial.Params).To(HaveKeyWithValue("kinact", 0.0005))
	})

	It("reports cancellation on every case", func() {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		report := sweep.NewRunner(kinactTemplate(), sweep.WithWorkers(2)).Run(canceled, kinactCases())
		Expect(report.Outcomes).To(HaveLen(4))
		for _, out := range report.Outcomes {
			Expect(errors.Is(out.Err, dynamo.ErrCanceled)).To(BeTrue())
		}
	})

	DescribeTable("stays non-negative across the sensitivity sweeps",
		func(variant string, base kinetics.Params, param string, values []float64) {
			tmpl := experiment.Config{Variant: variant}
			p := sweep.LookupParameter(param)
			cases := sweep.SensitivityCases(base, kinetics.SensitivityInitial(), p, values)

			report := sweep.NewRunner(tmpl, sweep.WithWorkers(4)).Run(ctx, cases)
			Expect(report.Err()).NotTo(HaveOccurred())

			for _, out := range report.Outcomes {
				eps := 1e-6 * out.Trajectory.Initial.MaxAbs()
				lo, _ := analysis.Extremes(out.Trajectory)
				Expect(lo).To(BeNumerically(">=", -eps), out.Label)
				Expect(out.Elapsed).To(BeNumerically(">", time.Duration(0)))
			}
		},
		Entry("kinact", "basic-reordered", kinetics.NeratinibParams(), "kinact", []float64{0.0005, 0.0011, 0.005, 0.01}),
		Entry("k_sulfen", "redox-turnover", kinetics.RedoxTurnoverParams(), "k_sulfen", []float64{5e-5, 1.1e-4, 2e-4, 5e-4}),
		Entry("turnover", "redox-turnover", kinetics.RedoxTurnoverParams(), "k_turnover", []float64{3e-6, 6.89e-6, 1.2e-5, 2.5e-5}),
	)
})

var _ = Describe("Status", func() {
	It("has readable names", func() {
		Expect(sweep.StatusStarted.String()).To(Equal("started"))
		Expect(sweep.StatusFailed.String()).To(Equal("failed"))
		Expect(sweep.Status(9).String()).To(Equal("Status(9)"))
	})
})
