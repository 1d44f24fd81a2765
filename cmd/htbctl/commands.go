package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bft-labs/htbctl/internal/adapters/netif"
	"github.com/bft-labs/htbctl/internal/domain"
	"github.com/bft-labs/htbctl/internal/render"
)

const busyMessage = "The machine is currently busy with another operation"

// elapsed formats a poll duration the way users read it.
func elapsed(out domain.OperationOutcome) string {
	return fmt.Sprintf("%.2f seconds", out.Elapsed.Seconds())
}

func newSearchCommand(opts *cliOptions) *cobra.Command {
	var id int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog by machine name or id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			ctrl, err := opts.controller()
			if err != nil {
				return err
			}

			var refs []domain.MachineRef
			if len(args) == 1 {
				refs, err = ctrl.Search(cmd.Context(), args[0], opts.cfg.IncludeRetired)
			} else if id != 0 {
				var ref domain.MachineRef
				ref, err = ctrl.Resolve(cmd.Context(), "", id, opts.cfg.IncludeRetired)
				refs = []domain.MachineRef{ref}
			} else {
				return errors.New("a machine name or --id is required")
			}
			if err != nil {
				return err
			}

			if opts.cfg.JSON {
				s, err := render.SearchJSON(refs)
				if err != nil {
					return err
				}
				fmt.Println(s)
				return nil
			}
			if len(refs) == 1 {
				fmt.Println(render.MachineTable(refs[0]))
				return nil
			}
			fmt.Println(render.SearchTable(refs))
			return nil
		},
	}
	cmd.Flags().IntVarP(&id, "id", "i", 0, "machine id to look up")
	return cmd
}

func newStartCommand(opts *cliOptions) *cobra.Command {
	var id int

	cmd := &cobra.Command{
		Use:   "start [query]",
		Short: "Spawn a machine instance and wait for its address",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			ctrl, err := opts.controller()
			if err != nil {
				return err
			}

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			if query == "" && id == 0 {
				return errors.New("a machine name or --id is required")
			}

			ref, err := ctrl.Resolve(cmd.Context(), query, id, opts.cfg.IncludeRetired)
			if err != nil {
				var ambiguous *domain.AmbiguousQueryError
				if errors.As(err, &ambiguous) {
					fmt.Println("Cannot start multiple machines at once")
					fmt.Println("Be more specific with your machine query:")
					for _, name := range ambiguous.Matches {
						fmt.Printf("  %s\n", name)
					}
					return nil
				}
				return err
			}

			fmt.Printf("Starting instance: %s\n", ref.Name)
			fmt.Println("The machine takes time to start up completely")
			fmt.Println("Please wait...")

			out, err := ctrl.Start(cmd.Context(), ref)
			if err != nil {
				return err
			}
			switch out.Kind {
			case domain.OutcomeAlreadyActive:
				fmt.Println("There is a machine that is already active")
			case domain.OutcomeBusy:
				fmt.Println(busyMessage)
			case domain.OutcomeTimedOut:
				fmt.Printf("There was a problem starting: %s (no address after %s)\n", out.Machine, elapsed(out))
			case domain.OutcomeResulted:
				fmt.Printf("Elapsed time: %s\n", elapsed(out))
				fmt.Printf("Finished: %s\n", out.Address)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&id, "id", "i", 0, "machine id to start, or to disambiguate the query")
	return cmd
}

func newInfoCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the active machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			ctrl, err := opts.controller()
			if err != nil {
				return err
			}

			desc, err := ctrl.Describe(cmd.Context())
			switch {
			case errors.Is(err, domain.ErrUpstreamBusy):
				fmt.Println(busyMessage)
				return nil
			case errors.Is(err, domain.ErrNotFound):
				fmt.Println("No active machine available")
				return nil
			case err != nil:
				return err
			}

			if opts.cfg.JSON {
				s, err := render.DescriptorJSON(desc)
				if err != nil {
					return err
				}
				fmt.Println(s)
				return nil
			}
			fmt.Println(render.DescriptorTable(desc))
			return nil
		},
	}
}

func newStopCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the active machine and wait for teardown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			ctrl, err := opts.controller()
			if err != nil {
				return err
			}

			out, err := ctrl.Stop(cmd.Context())
			if err != nil {
				return err
			}
			switch out.Kind {
			case domain.OutcomeNotFound:
				fmt.Println("No active machine available to stop")
			case domain.OutcomeBusy:
				fmt.Println(busyMessage)
			case domain.OutcomeTimedOut:
				fmt.Printf("There was a problem stopping: %s (still up after %s)\n", out.Machine, elapsed(out))
			case domain.OutcomeStopped:
				fmt.Printf("Elapsed time: %s\n", elapsed(out))
				fmt.Printf("Finished: %s was stopped\n", out.Machine)
			}
			return nil
		},
	}
}

func newResetCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset the active machine and wait for its new address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			ctrl, err := opts.controller()
			if err != nil {
				return err
			}

			out, err := ctrl.Reset(cmd.Context())
			if err != nil {
				return err
			}
			switch out.Kind {
			case domain.OutcomeNotFound:
				fmt.Println("No active machine available to reset")
			case domain.OutcomeBusy:
				fmt.Println(busyMessage)
			case domain.OutcomeTimedOut:
				fmt.Printf("There was a problem resetting: %s (no address after %s)\n", out.Machine, elapsed(out))
			case domain.OutcomeResulted:
				fmt.Printf("Resetting: %s\n", out.Machine)
				fmt.Printf("Elapsed time: %s\n", elapsed(out))
				fmt.Printf("Finished: %s\n", out.Address)
			}
			return nil
		},
	}
}

func newSubmitCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <flag>:<difficulty>",
		Short: "Submit a flag with a difficulty rating for the active machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}

			proof, err := domain.ParseProof(args[0])
			if err != nil {
				var validation *domain.ValidationError
				switch {
				case errors.As(err, &validation):
					fmt.Println(validation.Error())
				case errors.Is(err, domain.ErrInvalidProof):
					fmt.Printf("Invalid flag format: %s\n", args[0])
					fmt.Println("Correct format is <flag>:<difficulty>")
				default:
					return err
				}
				return nil
			}

			ctrl, err := opts.controller()
			if err != nil {
				return err
			}
			out, err := ctrl.SubmitProof(cmd.Context(), proof)
			if err != nil {
				return err
			}
			switch out.Kind {
			case domain.OutcomeInvalid:
				fmt.Println(out.Message)
			case domain.OutcomeNotFound:
				fmt.Println("No active machine available to submit a flag for")
			case domain.OutcomeBusy:
				fmt.Println(busyMessage)
			case domain.OutcomeSubmitted:
				fmt.Printf("Submitted flag for: %s\n", out.Machine)
				fmt.Printf("Flag %s -> Difficulty %d\n", proof.Flag, proof.Difficulty)
				fmt.Printf("Message: %s\n", out.Message)
			}
			return nil
		},
	}
}

func newLocalCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "local",
		Short: "Print the local VPN tunnel address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			address, err := netif.NewResolver().IPv4(opts.cfg.Iface)
			if err != nil {
				return err
			}
			if address == "" {
				fmt.Printf("Interface %s is not up, connect to VPN first\n", opts.cfg.Iface)
				return nil
			}
			fmt.Println(address)
			return nil
		},
	}
}

func newTargetCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "target",
		Short: "Print the active machine's address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			ctrl, err := opts.controller()
			if err != nil {
				return err
			}

			address, err := ctrl.Target(cmd.Context())
			switch {
			case errors.Is(err, domain.ErrUpstreamBusy):
				fmt.Println(busyMessage)
				return nil
			case errors.Is(err, domain.ErrNotFound):
				fmt.Println("No active machine available to check the target IP for")
				return nil
			case err != nil:
				return err
			}
			if address == "" {
				fmt.Println("No address assigned yet, the machine may still be starting")
				return nil
			}
			fmt.Println(address)
			return nil
		},
	}
}
