package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/mesh-intelligence/blueprint/internal/app"
	"github.com/mesh-intelligence/blueprint/pkg/types"
)

var validEntityTypesStr = strings.Join(types.StandardEntityTypes, ", ")

// checkEntityType rejects names outside the standard namespaces.
func checkEntityType(entityType string) error {
	if !slices.Contains(types.StandardEntityTypes, entityType) {
		return fmt.Errorf("%w: %q (valid: %s)", types.ErrInvalidEntityType, entityType, validEntityTypesStr)
	}
	return nil
}

func errAppendOnly(entityType string) error {
	return fmt.Errorf("%w: %s records are append-only", types.ErrValidation, entityType)
}

func newGetCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "get <entity> <id>",
		Short: "Print one stored record as JSON",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			entityType, id := args[0], args[1]
			if err := checkEntityType(entityType); err != nil {
				return err
			}
			value, ok, err := a.Backend.Get(entityType, id)
			if err != nil {
				return fmt.Errorf("get %s %s: %w", entityType, id, err)
			}
			if !ok {
				return fmt.Errorf("%w: %s %s", types.ErrNotFound, entityType, id)
			}
			return printJSON(cmd.OutOrStdout(), json.RawMessage(value))
		}),
	}
}

func newListCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "list <entity>",
		Short: "Print every record of an entity type as a JSON array",
		Long: "List prints every stored record in the namespace. Valid entity types: " +
			validEntityTypesStr + ".",
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			entityType := args[0]
			if err := checkEntityType(entityType); err != nil {
				return err
			}
			values, err := a.Backend.GetAll(entityType)
			if err != nil {
				return fmt.Errorf("list %s: %w", entityType, err)
			}
			out := make([]json.RawMessage, 0, len(values))
			for _, v := range values {
				out = append(out, v)
			}
			return printJSON(cmd.OutOrStdout(), out)
		}),
	}
}

func newSetCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:     "set <entity> <json>",
		Short:   "Create or replace a record; the id is taken from the document's \"id\" field",
		Example: `  blueprint set Goal '{"id":"g1","title":"Ship v1","status":"Pending"}'`,
		Args:    usageArgs(cobra.ExactArgs(2)),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			entityType, doc := args[0], args[1]
			if err := checkEntityType(entityType); err != nil {
				return err
			}
			if !gjson.Valid(doc) {
				return fmt.Errorf("%w: value is not valid JSON", types.ErrValidation)
			}
			id := gjson.Get(doc, "id").String()
			if id == "" {
				return fmt.Errorf("%w: document has no \"id\"", types.ErrInvalidID)
			}
			if types.AppendOnlyEntityTypes[entityType] {
				if _, exists, err := a.Backend.Get(entityType, id); err != nil {
					return fmt.Errorf("get %s %s: %w", entityType, id, err)
				} else if exists {
					return errAppendOnly(entityType)
				}
			}
			if err := a.Backend.Set(entityType, id, []byte(doc)); err != nil {
				return fmt.Errorf("set %s %s: %w", entityType, id, err)
			}
			return printJSON(cmd.OutOrStdout(), json.RawMessage(doc))
		}),
	}
}

func newDeleteCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entity> <id>",
		Short: "Remove a record",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: st.run(func(cmd *cobra.Command, args []string, a *app.App) error {
			entityType, id := args[0], args[1]
			if err := checkEntityType(entityType); err != nil {
				return err
			}
			if types.AppendOnlyEntityTypes[entityType] {
				return errAppendOnly(entityType)
			}
			_, ok, err := a.Backend.Get(entityType, id)
			if err != nil {
				return fmt.Errorf("get %s %s: %w", entityType, id, err)
			}
			if !ok {
				return fmt.Errorf("%w: %s %s", types.ErrNotFound, entityType, id)
			}
			if err := a.Backend.Remove(entityType, id); err != nil {
				return fmt.Errorf("delete %s %s: %w", entityType, id, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", entityType, id)
			return err
		}),
	}
}
