package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	reconciliation "github.com/orris-inc/fundtrail/internal/application/reconciliation/usecases"
	"github.com/orris-inc/fundtrail/internal/infrastructure/blockchain"
	"github.com/orris-inc/fundtrail/internal/infrastructure/config"
	"github.com/orris-inc/fundtrail/internal/infrastructure/database"
	"github.com/orris-inc/fundtrail/internal/infrastructure/repository"
	"github.com/orris-inc/fundtrail/internal/interfaces/dto"
	"github.com/orris-inc/fundtrail/internal/shared/logger"
)

var (
	configPath string
	project    string
	asJSON     bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <organization-address>",
		Short: "Compare an organization's custody balance with its recorded donations",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Summarize one project instead of the organization")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("", configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	db, err := database.Open(&cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	algod := blockchain.NewAlgodClient(&cfg.Ledger, log)
	balances := blockchain.NewLedgerClient(algod, blockchain.NewRemoteSigner(&cfg.Ledger, log), log)
	donationRepo := repository.NewDonationRepository(db, log)
	out := cmd.OutOrStdout()

	if project != "" {
		projectRepo := repository.NewProjectRepository(db, log)
		s, err := reconciliation.NewProjectSummaryUseCase(projectRepo, donationRepo, balances, log).Execute(cmd.Context(), project)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(out, dto.ToProjectSummaryDTO(s))
		}
		return writeTable(out, s.BalanceError, [][2]string{
			{"Project", s.ProjectID + " (" + s.Title + ")"},
			{"Custody address", s.CustodyAddress},
			{"Target", s.TargetAmount.Display()},
			{"On-chain funded", s.OnChainFunded.Display()},
			{"Settled allocations", s.SettledAllocated.Display()},
			{"Pending allocations", s.PendingAllocated.Display()},
		})
	}

	s, err := reconciliation.NewFundingSummaryUseCase(donationRepo, balances, log).Execute(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(out, dto.ToFundingSummaryDTO(s))
	}
	return writeTable(out, s.BalanceError, [][2]string{
		{"Organization", s.Organization},
		{"Donations", fmt.Sprintf("%d", s.DonationCount)},
		{"On-chain balance", s.OnChainBalance.Display()},
		{"Total donated", s.TotalDonated.Display()},
		{"Total allocated", s.TotalAllocated.Display()},
		{"Settled allocations", s.TotalSettledAllocated.Display()},
		{"Pending allocations", s.TotalPending.Display()},
		{"Unallocated", s.Unallocated.Display()},
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, balanceError string, rows [][2]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	if balanceError != "" {
		fmt.Fprintf(tw, "PARTIAL\tbalance unavailable: %s\n", balanceError)
	}
	return tw.Flush()
}
