// Package admin implements the operator CLI for inspecting and resolving shift exchanges.
package admin

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"shiftswap/internal/models"
	"shiftswap/internal/repository"
	"shiftswap/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Runtime is what the commands operate on.
type Runtime struct {
	DB         *gorm.DB
	Invalidate service.Invalidator
}

// Loader opens the runtime lazily so --help works without a database.
type Loader func() (*Runtime, error)

type services struct {
	users     repository.UserRepository
	shifts    *service.ShiftService
	requests  *service.RequestService
	approvals *service.ApprovalService
	history   *service.HistoryService
}

func newServices(rt *Runtime) *services {
	userRepo := repository.NewUserRepository(rt.DB)
	users := service.NewUserService(userRepo, rt.Invalidate)
	history := service.NewHistoryService(rt.DB, users)
	return &services{
		users:     userRepo,
		shifts:    service.NewShiftService(rt.DB, users, history, service.ShiftOptions{}, rt.Invalidate),
		requests:  service.NewRequestService(rt.DB, users, rt.Invalidate),
		approvals: service.NewApprovalService(rt.DB, history, rt.Invalidate),
		history:   history,
	}
}

// NewRootCmd creates the root command.
func NewRootCmd(load Loader) *cobra.Command {
	var svc *services

	cmd := &cobra.Command{
		Use:           "shiftswap-admin",
		Short:         "Inspect and resolve shift exchanges",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			rt, err := load()
			if err != nil {
				return err
			}
			svc = newServices(rt)
			return nil
		},
	}

	get := func() *services { return svc }

	cmd.AddCommand(
		newShiftsCmd(get),
		newRequestsCmd(get),
		newApproveCmd(get),
		newRejectCmd(get),
		newHistoryCmd(get),
		newUsersCmd(get),
	)
	return cmd
}

func newShiftsCmd(get func() *services) *cobra.Command {
	var (
		activeOnly bool
		owner      string
	)
	cmd := &cobra.Command{
		Use:   "shifts",
		Short: "List the available-shifts board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if owner != "" {
				return printOwnedShifts(cmd, get(), owner)
			}
			views, err := get().shifts.ListAvailableShifts(cmd.Context(), !activeOnly)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintln(out, "No shifts.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTYPE\tWINDOW\tOWNER\tSTATUS")
			for _, v := range views {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", v.ID, v.ShiftDate, v.ShiftType, window(v.StartTime, v.EndTime), v.CreatorLDAP, shiftStatus(v))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "Hide shifts that already have an approved request")
	cmd.Flags().StringVar(&owner, "owner", "", "List every shift posted by this telegram id instead of the board")
	return cmd
}

func printOwnedShifts(cmd *cobra.Command, svc *services, owner string) error {
	shifts, err := svc.shifts.ListShiftsByOwner(cmd.Context(), owner)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(shifts) == 0 {
		fmt.Fprintln(out, "No shifts.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTYPE\tWINDOW\tSTATUS")
	for _, s := range shifts {
		status := "open"
		if !s.IsActive {
			status = "closed"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.ShiftDate, s.ShiftType, window(s.StartTime, s.EndTime), status)
	}
	return w.Flush()
}

func newRequestsCmd(get func() *services) *cobra.Command {
	return &cobra.Command{
		Use:   "requests <shift_id>",
		Short: "List requests filed against a shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shiftID, err := parseID(args[0])
			if err != nil {
				return err
			}
			shift, err := get().shifts.GetShift(cmd.Context(), shiftID)
			if err != nil {
				return err
			}
			views, err := get().requests.ListRequestsForShift(cmd.Context(), shiftID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Shift %d: %s %s, posted by %s\n", shift.ID, shift.ShiftDate, shift.ShiftType, shift.CreatorTelegramID)
			if len(views) == 0 {
				fmt.Fprintln(out, "No requests.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tREQUESTER\tNAME\tSTATUS\tCREATED")
			for _, v := range views {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", v.ID, v.RequesterLDAP, v.RequesterName, v.Status, v.CreatedAt)
			}
			return w.Flush()
		},
	}
}

func newApproveCmd(get func() *services) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "approve <request_id>",
		Short: "Approve a request and close its shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID, err := parseID(args[0])
			if err != nil {
				return err
			}
			decision, err := get().approvals.Approve(cmd.Context(), requestID, actor)
			if err != nil {
				return err
			}
			if !decision.Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Request %d was already approved.\n", requestID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Approved request %d; %d competing request(s) rejected.\n", requestID, decision.AutoRejected)
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "as", "", "Act as this telegram id (must own the shift)")
	return cmd
}

func newRejectCmd(get func() *services) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "reject <request_id>",
		Short: "Reject a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID, err := parseID(args[0])
			if err != nil {
				return err
			}
			decision, err := get().approvals.Reject(cmd.Context(), requestID, actor)
			if err != nil {
				return err
			}
			if !decision.Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Request %d was already rejected.\n", requestID)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rejected request %d.\n", requestID)
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "as", "", "Act as this telegram id (must own the shift)")
	return cmd
}

func newHistoryCmd(get func() *services) *cobra.Command {
	return &cobra.Command{
		Use:   "history <telegram_id>",
		Short: "Print the audit trail of a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := get().history.QueryHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), views)
		},
	}
}

func newUsersCmd(get func() *services) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := get().users.List(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TELEGRAM_ID\tLDAP\tNAME")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.TelegramID, u.LDAP, u.FirstName)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum users to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "Users to skip")
	return cmd
}

func printHistory(out io.Writer, views []models.HistoryView) error {
	if len(views) == 0 {
		fmt.Fprintln(out, "No history.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tACTION\tSHIFT\tDATE\tTYPE\tCREATOR\tREQUESTER")
	for _, v := range views {
		requester := "-"
		if v.RequesterLDAP != nil {
			requester = *v.RequesterLDAP
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n", v.CreatedAt, v.Action, v.ShiftID, v.ShiftDate, v.ShiftType, v.CreatorLDAP, requester)
	}
	return w.Flush()
}

func parseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(n), nil
}

func window(start, end *string) string {
	if start == nil || end == nil {
		return "-"
	}
	return *start + "-" + *end
}

func shiftStatus(v models.ShiftView) string {
	switch {
	case v.IsTaken:
		taker := "?"
		if v.RequesterLDAP != nil {
			taker = *v.RequesterLDAP
		}
		return "taken by " + taker
	case v.IsActive:
		return "open"
	default:
		return "closed"
	}
}
