package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/san-kum/odegen/internal/codegen"
	"github.com/san-kum/odegen/internal/config"
	"github.com/san-kum/odegen/internal/modelfile"
)

var (
	target      string
	schemeNames []string
	stiffStates []string
	delta       float64
	argOrder    string
	output      string
	configFile  string
	preset      string
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

// main is the entry point for the odegen CLI; it registers commands and
// flags and executes the root command, exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "odegen",
		Short: "compile ODE model descriptions to simulation code",
	}

	convertCmd := &cobra.Command{
		Use:   "convert [model file]",
		Short: "generate target-language source for a model",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvert,
	}
	convertCmd.Flags().StringVar(&target, "to", config.DefaultTarget, "target language (c, python, go)")
	convertCmd.Flags().StringArrayVar(&schemeNames, "scheme", nil, "numerical scheme to generate (repeatable)")
	convertCmd.Flags().StringSliceVar(&stiffStates, "stiff", nil, "stiff states for the hybrid rush larsen scheme")
	convertCmd.Flags().Float64Var(&delta, "delta", config.DefaultDelta, "threshold for the rush larsen schemes")
	convertCmd.Flags().StringVar(&argOrder, "order", config.DefaultOrder, "argument order (tsp, tps, stp, spt, pst, pts)")
	convertCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	convertCmd.Flags().StringVar(&configFile, "config", "", "configuration file")
	convertCmd.Flags().StringVar(&preset, "preset", "", "named generation preset")

	inspectCmd := &cobra.Command{
		Use:   "inspect [model file]",
		Short: "show states, parameters and computation order",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	componentsCmd := &cobra.Command{
		Use:   "components [model file]",
		Short: "list components and their coupling surface",
		Args:  cobra.ExactArgs(1),
		RunE:  runComponents,
	}

	rootCmd.AddCommand(convertCmd, inspectCmd, componentsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers preset, config file and explicit flags, the last one
// winning.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("to") {
		cfg.Target = target
	}
	if cmd.Flags().Changed("scheme") {
		cfg.Schemes = schemeNames
	}
	if cmd.Flags().Changed("stiff") {
		cfg.StiffStates = stiffStates
	}
	if cmd.Flags().Changed("delta") {
		cfg.Delta = delta
	}
	if cmd.Flags().Changed("order") {
		cfg.Order = argOrder
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = output
	}
	return cfg, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ode, err := modelfile.Load(args[0])
	if err != nil {
		return err
	}

	gen, err := codegen.ForTarget(ode, cfg.Target)
	if err != nil {
		return err
	}
	gen.SetWarnf(func(format string, a ...any) {
		fmt.Fprintf(cmd.ErrOrStderr(), "odegen: warning: "+format+"\n", a...)
	})

	order, err := codegen.ParseArgOrder(cfg.Order)
	if err != nil {
		return err
	}

	var selected []codegen.Scheme
	for _, name := range cfg.Schemes {
		scheme, err := codegen.ParseScheme(name)
		if err != nil {
			return err
		}
		selected = append(selected, scheme)
	}

	code, err := gen.Module(codegen.ModuleOptions{
		Order:   order,
		Schemes: selected,
		Stiff:   cfg.StiffStates,
		Delta:   cfg.Delta,
	})
	if err != nil {
		return err
	}

	if cfg.Output == "" {
		fmt.Fprint(cmd.OutOrStdout(), code)
		return nil
	}
	if err := os.WriteFile(cfg.Output, []byte(code), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.Output)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	ode, err := modelfile.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s: %d states, %d parameters, %d components",
		ode.Name(), ode.NumStates(), ode.NumParameters(), ode.NumComponents())))

	stateTable := tablewriter.NewWriter(out)
	stateTable.SetHeader([]string{"State", "Initial", "Unit", "Description"})
	for _, s := range ode.States() {
		stateTable.Append([]string{s.Name, fmt.Sprintf("%g", s.Value), s.UnitStr, s.Description})
	}
	stateTable.Render()

	paramTable := tablewriter.NewWriter(out)
	paramTable.SetHeader([]string{"Parameter", "Value", "Unit", "Description"})
	for _, p := range ode.Parameters() {
		paramTable.Append([]string{p.Name, fmt.Sprintf("%g", p.Value), p.UnitStr, p.Description})
	}
	paramTable.Render()

	sorted, err := ode.SortedAssignments()
	if err != nil {
		return err
	}
	exprTable := tablewriter.NewWriter(out)
	exprTable.SetHeader([]string{"#", "Assignment", "Expression"})
	for i, a := range sorted {
		exprTable.Append([]string{fmt.Sprintf("%d", i+1), a.AtomName(), a.Expression().String()})
	}
	exprTable.Render()

	if missing := ode.MissingVariables(); len(missing) > 0 {
		fmt.Fprintf(out, "missing variables: %s\n", strings.Join(missing, ", "))
	}
	return nil
}

func runComponents(cmd *cobra.Command, args []string) error {
	ode, err := modelfile.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(ode.Name()))

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Component", "States", "Parameters", "Assignments", "Missing"})
	for _, comp := range ode.Components() {
		table.Append([]string{
			comp.Name,
			fmt.Sprintf("%d", len(comp.States)),
			fmt.Sprintf("%d", len(comp.Parameters)),
			fmt.Sprintf("%d", len(comp.Assignments)),
			strings.Join(comp.MissingVariables(), ", "),
		})
	}
	table.Render()

	for _, comp := range ode.Components() {
		sub, err := ode.Remove(comp)
		if err != nil {
			return err
		}
		if missing := sub.MissingVariables(); len(missing) > 0 {
			fmt.Fprintf(out, "without %s the model needs: %s\n", comp.Name, strings.Join(missing, ", "))
		}
	}
	return nil
}
