package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/covkin/internal/config"
	"github.com/san-kum/covkin/internal/integrators"
	"github.com/san-kum/covkin/internal/kinetics"
)

func newInhibitorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inhibitors",
		Short: "list inhibitor profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tKON\tKSUB\tKOFF\tKINACT\tKOFF/KON")
			for _, inh := range kinetics.Inhibitors() {
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%.3g\n",
					inh.Name, kinetics.SharedKon, inh.KSub, inh.KOff, inh.KInact, inh.KOff/kinetics.SharedKon)
			}
			return w.Flush()
		},
	}
}

func newVariantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "list model variants and integrators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VARIANT\tSAMPLES\tSPECIES\tREACTIONS\tDESCRIPTION")
			for _, v := range kinetics.Variants() {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					v.Name, v.Samples, strings.Join(v.Layout.Names(), ","), v.Groups, v.Description)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nintegrators: %s\n", strings.Join(integrators.Names(), ", "))
			return nil
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as a scenario file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				s := config.GetPreset(args[0])
				if s == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
				}
				return s.WriteYAML(cmd.OutOrStdout())
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tVARIANT\tSWEEP")
			for _, name := range config.ListPresets() {
				s := config.GetPreset(name)
				sw := "-"
				if s.Sweep != nil {
					sw = s.Sweep.Mode
					if s.Sweep.Parameter != "" {
						sw += " " + s.Sweep.Parameter
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, s.Variant, sw)
			}
			return w.Flush()
		},
	}
}
