package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blueprint/internal/app"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

func newAuditCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Read and append to the audit log",
	}
	cmd.AddCommand(newAuditLogCmd(st), newAuditRecordCmd(st))
	return cmd
}

func newAuditLogCmd(st *rootState) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "List audit entries, newest first",
		Args:  usageArgs(cobra.NoArgs),
	}
	cmd.RunE = st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
		entries, err := a.Audit.GetAllLogs()
		if err != nil {
			return err
		}
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
		return st.emit(cmd, entries, func(w io.Writer) error {
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					formatTime(e.Timestamp),
					string(e.EventType),
					e.EntityType,
					string(e.Status),
					truncate(e.Message, 50),
				})
			}
			return printTable(w, []string{"TIME", "EVENT", "ENTITY", "STATUS", "MESSAGE"}, rows, "entry")
		})
	})
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of entries (0 = no limit)")
	return cmd
}

func newAuditRecordCmd(st *rootState) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:     "record <event-type> <entity-type> <entity-id> <message>",
		Short:   "Append an audit entry",
		Example: `  blueprint audit record SESSION_SCHEDULED Session s1 "Mentoring session booked"`,
		Args:    usageArgs(cobra.ExactArgs(4)),
	}
	cmd.RunE = st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
		entry, err := a.Audit.RecordEvent(types.AuditEventType(args[0]), args[1], args[2], args[3], types.AuditStatus(status))
		if err != nil {
			return err
		}
		return st.emit(cmd, entry, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Recorded %s %s (hash %s)\n", entry.EventType, entry.ID, entry.PayloadHash)
			return err
		})
	})
	cmd.Flags().StringVar(&status, "status", string(types.AuditSuccess), "SUCCESS or FAILURE")
	return cmd
}
