package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blueprint/internal/app"
	"github.com/mesh-intelligence/blueprint/internal/ledger"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

func newTokensCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Issue rewards and inspect token balances",
	}
	cmd.AddCommand(newTokensIssueCmd(st), newTokensBalanceCmd(st), newTokensHistoryCmd(st))
	return cmd
}

func newTokensIssueCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:     "issue <amount> <CareerCoin|SkillPoint> [memo]",
		Short:   "Credit the user with tokens",
		Example: `  blueprint tokens issue 5 CareerCoin "Finished course"`,
		Args:    usageArgs(cobra.RangeArgs(2, 3)),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			amount, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("%w: %q", types.ErrInvalidAmount, args[0])
			}
			memo := ""
			if len(args) == 3 {
				memo = args[2]
			}
			tx, err := a.Ledger.IssueReward(amount, types.TokenType(args[1]), memo)
			if err != nil {
				return err
			}
			return st.emit(cmd, tx, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Issued %s %s (transaction %s)\n", ledger.FormatAmount(tx.Amount), tx.TokenType, tx.ID)
				return err
			})
		}),
	}
}

func newTokensBalanceCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [CareerCoin|SkillPoint]",
		Short: "Show token balances",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			tokenTypes := []types.TokenType{types.TokenCareerCoin, types.TokenSkillPoint}
			if len(args) == 1 {
				tt := types.TokenType(args[0])
				if !tt.Valid() {
					return fmt.Errorf("%w: %q", types.ErrInvalidTokenType, args[0])
				}
				tokenTypes = []types.TokenType{tt}
			}

			balances := make(map[types.TokenType]float64, len(tokenTypes))
			for _, tt := range tokenTypes {
				b, err := a.Ledger.GetBalance(tt)
				if err != nil {
					return err
				}
				balances[tt] = b
			}
			return st.emit(cmd, balances, func(w io.Writer) error {
				for _, tt := range tokenTypes {
					if _, err := fmt.Fprintf(w, "%s: %s\n", tt, ledger.FormatAmount(balances[tt])); err != nil {
						return err
					}
				}
				return nil
			})
		}),
	}
}

func newTokensHistoryCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List the user's token transactions, newest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			txs, err := a.Ledger.Transactions()
			if err != nil {
				return err
			}
			return st.emit(cmd, txs, func(w io.Writer) error {
				rows := make([][]string, 0, len(txs))
				for _, tx := range txs {
					rows = append(rows, []string{
						formatTime(tx.Timestamp),
						"+" + ledger.FormatAmount(tx.Amount),
						string(tx.TokenType),
						truncate(strings.TrimSpace(tx.Memo), 40),
						string(tx.Status),
					})
				}
				return printTable(w, []string{"TIME", "AMOUNT", "TOKEN", "MEMO", "STATUS"}, rows, "transaction")
			})
		}),
	}
}
