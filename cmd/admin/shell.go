package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/vistara-fest/backend/internal/admin"
	"github.com/vistara-fest/backend/internal/apiclient"
	"github.com/vistara-fest/backend/internal/models"
)

const help = `commands:
  login <password>                 authenticate and load the dashboard
  reload                           fetch everything again
  content                          show site content
  content set <field> <value>      heroTitle heroSubtitle heroBackgroundMedia marqueeText eventDate upiId qrCodeUrl
  content price <tier> <value>     diamond gold silver
  content save                     save with confirmation
  gallery                          list gallery
  gallery add <url> | gallery rm <index>
  events                           list events
  event new | event edit <id> | event cancel | event save | event delete <id>
  event set <field> <value>        title date time description category teamSize coordinatorPhone entryFee maxSlots image pass
  event type Solo|Team | event tier <tier> | event rule add <text> | event rule rm <index>
  team                             list roster
  member new | member edit <index> | member cancel | member save
  member set <field> <value>       name role category subCategory instagram linkedin image active
  member delete <index> | member move <from> <to> | team clear
  regs [all|all-list|<eventId>]    summaries or rows
  reg <id>                         registration detail
  verify <id>                      mark registration verified
  upload <slot> <folder> <path>    upload a file and print its URL
  quit`

type shell struct {
	panel *admin.Panel
	ui    *terminalUI
	out   io.Writer
}

func (s *shell) prompt() string {
	st := s.panel.State()
	switch {
	case !st.Authenticated:
		return "login> "
	case st.EventMode != admin.Browsing:
		return "event(" + st.EventMode.String() + ")> "
	case st.MemberMode != admin.Browsing:
		return "member(" + st.MemberMode.String() + ")> "
	}
	return "admin> "
}

// run executes one command line and reports whether the console should exit.
func (s *shell) run(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	cmd, rest := args[0], args[1:]
	if cmd == "quit" || cmd == "exit" {
		return true
	}
	if cmd == "help" {
		fmt.Fprintln(s.out, help)
		return false
	}
	if cmd != "login" && !s.panel.State().Authenticated {
		fmt.Fprintln(s.out, "login first")
		return false
	}

	var err error
	switch cmd {
	case "login":
		s.panel.SetPassword(tail(line, 1))
		_ = s.panel.Login(ctx)
	case "reload":
		s.panel.Load(ctx)
	case "content":
		err = s.content(ctx, rest, line)
	case "gallery":
		err = s.gallery(ctx, rest)
	case "events":
		s.listEvents()
	case "event":
		err = s.event(ctx, rest, line)
	case "team":
		if len(rest) == 1 && rest[0] == "clear" {
			err = s.panel.DeleteAllMembers(ctx)
		} else {
			s.listTeam()
		}
	case "member":
		err = s.member(ctx, rest, line)
	case "regs":
		if len(rest) > 0 {
			s.panel.SetFilter(rest[0])
		}
		s.listRegistrations()
	case "reg":
		err = s.showRegistration(rest)
	case "verify":
		if len(rest) != 1 {
			err = errUsage
		} else {
			err = s.panel.Verify(ctx, rest[0])
		}
	case "upload":
		err = s.upload(ctx, rest)
	default:
		err = errUsage
	}
	s.report(err)
	return false
}

var errUsage = errors.New("unknown command or wrong arguments, type help")

// report prints errors the panel has not already shown to the operator.
func (s *shell) report(err error) {
	switch {
	case err == nil, errors.Is(err, admin.ErrCancelled):
	case apiclient.IsUnauthorized(err):
		fmt.Fprintln(s.out, "session expired, login again")
		s.panel.State().Authenticated = false
	case errors.Is(err, admin.ErrValidation), errors.Is(err, models.ErrNotFound), errors.Is(err, errUsage):
		fmt.Fprintln(s.out, err)
	}
}

// tail returns the text after the first n words of line.
func tail(line string, n int) string {
	s := strings.TrimSpace(line)
	for i := 0; i < n; i++ {
		idx := strings.IndexAny(s, " \t")
		if idx < 0 {
			return ""
		}
		s = strings.TrimSpace(s[idx:])
	}
	return s
}

func atoi(args []string, i int) (int, error) {
	if i >= len(args) {
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, errUsage
	}
	return n, nil
}

func (s *shell) content(ctx context.Context, args []string, line string) error {
	if len(args) == 0 {
		c := s.panel.State().Content
		w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "heroTitle\t%s\nheroSubtitle\t%s\n", c.HeroTitle, c.HeroSubtitle)
		if c.HeroBackgroundMedia != nil {
			fmt.Fprintf(w, "heroBackgroundMedia\t%s (%s)\n", c.HeroBackgroundMedia.URL, c.HeroBackgroundMedia.Type)
		}
		fmt.Fprintf(w, "marqueeText\t%s\neventDate\t%s\n", c.MarqueeText, c.EventDate)
		fmt.Fprintf(w, "prices\tdiamond %d, gold %d, silver %d\n", c.TicketPrices.Diamond, c.TicketPrices.Gold, c.TicketPrices.Silver)
		fmt.Fprintf(w, "upiId\t%s\nqrCodeUrl\t%s\ngallery\t%d items\n", c.UPIID, c.QRCodeURL, len(c.GalleryImages))
		return w.Flush()
	}
	switch args[0] {
	case "set":
		if len(args) < 2 {
			return errUsage
		}
		return s.panel.UpdateField(ctx, args[1], tail(line, 3))
	case "price":
		if len(args) < 2 {
			return errUsage
		}
		return s.panel.UpdatePrice(ctx, args[1], tail(line, 3))
	case "save":
		return s.panel.SaveContent(ctx, true)
	}
	return errUsage
}

func (s *shell) gallery(ctx context.Context, args []string) error {
	if len(args) == 0 {
		for i, m := range s.panel.State().Content.GalleryImages {
			fmt.Fprintf(s.out, "%3d  %-5s  %s\n", i, m.Type, m.URL)
		}
		return nil
	}
	switch args[0] {
	case "add":
		if len(args) < 2 {
			return errUsage
		}
		return s.panel.AddGalleryItem(ctx, args[1])
	case "rm":
		i, err := atoi(args, 1)
		if err != nil {
			return err
		}
		return s.panel.DeleteGalleryItem(ctx, i)
	}
	return errUsage
}

func (s *shell) listEvents() {
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTYPE\tDATE\tSLOTS")
	for _, e := range s.panel.State().Events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%d/%d\n", e.ID, e.Title, e.ParticipationType, e.Date, e.Time, e.RegisteredCount, e.Capacity())
	}
	_ = w.Flush()
}

func (s *shell) event(ctx context.Context, args []string, line string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "new":
		s.panel.NewEvent()
	case "edit":
		if len(args) != 2 {
			return errUsage
		}
		return s.panel.EditEvent(args[1])
	case "cancel":
		s.panel.CancelEvent()
	case "save":
		return s.panel.SaveEvent(ctx)
	case "delete":
		if len(args) != 2 {
			return errUsage
		}
		return s.panel.DeleteEvent(ctx, args[1])
	case "type":
		if len(args) != 2 {
			return errUsage
		}
		return s.panel.SetParticipationType(models.ParticipationType(args[1]))
	case "tier":
		if len(args) != 2 {
			return errUsage
		}
		s.panel.ToggleTicketTier(args[1])
		fmt.Fprintf(s.out, "tiers: %s\n", strings.Join(s.panel.EventDraft().TicketTiers, ", "))
	case "rule":
		if len(args) < 2 {
			return errUsage
		}
		switch args[1] {
		case "add":
			s.panel.AddRule(tail(line, 3))
		case "rm":
			i, err := atoi(args, 2)
			if err != nil {
				return err
			}
			s.panel.RemoveRule(i)
		default:
			return errUsage
		}
		for i, r := range s.panel.EventDraft().Rules {
			fmt.Fprintf(s.out, "%3d  %s\n", i, r)
		}
	case "set":
		if len(args) < 2 {
			return errUsage
		}
		return setEventField(s.panel.EventDraft(), args[1], tail(line, 3))
	default:
		return errUsage
	}
	return nil
}

func setEventField(e *models.Event, field, value string) error {
	switch field {
	case "title":
		e.Title = value
	case "date":
		e.Date = value
	case "time":
		e.Time = value
	case "description":
		e.Description = value
	case "category":
		e.Category = value
	case "teamSize":
		e.TeamSize = value
	case "coordinatorPhone":
		e.CoordinatorPhone = value
	case "entryFee":
		e.EntryFee = models.Fee(value)
	case "maxSlots":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: maxSlots must be a positive number", admin.ErrValidation)
		}
		e.MaxSlots = n
	case "image":
		e.Image = models.NormalizeMediaPtr(&models.MediaAsset{URL: value, Type: models.ClassifyMedia(value)})
	case "pass":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: pass must be true or false", admin.ErrValidation)
		}
		e.IsPassEvent = &v
	default:
		return fmt.Errorf("%w: unknown event field %q", admin.ErrValidation, field)
	}
	return nil
}

func (s *shell) listTeam() {
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tROLE\tCATEGORY\tACTIVE")
	for i, m := range s.panel.State().Team {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", i, m.Name, m.Role, m.Category, m.IsActive)
	}
	_ = w.Flush()
}

func (s *shell) member(ctx context.Context, args []string, line string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "new":
		s.panel.NewMember()
	case "edit":
		i, err := atoi(args, 1)
		if err != nil {
			return err
		}
		return s.panel.EditMember(s.panel.MemberIdentity(i))
	case "cancel":
		s.panel.CancelMember()
	case "save":
		return s.panel.SaveMember(ctx)
	case "delete":
		i, err := atoi(args, 1)
		if err != nil {
			return err
		}
		return s.panel.DeleteMember(ctx, s.panel.MemberIdentity(i))
	case "move":
		from, err := atoi(args, 1)
		if err != nil {
			return err
		}
		to, err := atoi(args, 2)
		if err != nil {
			return err
		}
		return s.panel.ReorderMembers(ctx, from, to)
	case "set":
		if len(args) < 2 {
			return errUsage
		}
		return setMemberField(s.panel.MemberDraft(), args[1], tail(line, 3))
	default:
		return errUsage
	}
	return nil
}

func setMemberField(m *models.TeamMember, field, value string) error {
	switch field {
	case "name":
		m.Name = value
	case "role":
		m.Role = value
	case "category":
		m.Category = value
	case "subCategory":
		m.SubCategory = value
	case "instagram":
		m.Instagram = value
	case "linkedin":
		m.LinkedIn = value
	case "image":
		m.Image = models.NormalizeMediaPtr(&models.MediaAsset{URL: value, Type: models.ClassifyMedia(value)})
	case "active":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: active must be true or false", admin.ErrValidation)
		}
		m.IsActive = v
	default:
		return fmt.Errorf("%w: unknown member field %q", admin.ErrValidation, field)
	}
	return nil
}

func (s *shell) listRegistrations() {
	if s.panel.State().Filter == admin.FilterSummary {
		sums, total := s.panel.Summaries()
		w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "EVENT\tTITLE\tREGISTERED\tVERIFIED\tFILL")
		for _, sum := range sums {
			fmt.Fprintf(w, "%s\t%s\t%d/%d\t%d\t%.0f%%\n", sum.EventID, sum.Title, sum.Total, sum.Capacity, sum.Verified, sum.FillRatio()*100)
		}
		_ = w.Flush()
		fmt.Fprintf(s.out, "total registrations: %d\n", total)
		return
	}
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEVENT\tCOLLEGE\tSTATUS")
	for _, r := range s.panel.Rows() {
		status := "pending"
		if r.IsActive {
			status = "verified"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.DisplayName(), r.EventName, r.College, status)
	}
	_ = w.Flush()
}

func (s *shell) showRegistration(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := s.panel.Select(args[0]); err != nil {
		return err
	}
	r := s.panel.State().Selected
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "name\t%s\nemail\t%s\nphone\t%s\n", r.Name, r.Email, r.Phone)
	fmt.Fprintf(w, "college\t%s\ndepartment\t%s\ndegree\t%s %s, year %s\n", r.College, r.Department, r.Degree, r.Course, r.Year)
	fmt.Fprintf(w, "event\t%s (%s)\n", r.EventName, r.ParticipationType)
	if r.TeamName != "" {
		fmt.Fprintf(w, "team\t%s\n", r.TeamName)
	}
	for i, tm := range r.TeamMembers {
		fmt.Fprintf(w, "  member %d\t%s %s\n", i+1, tm.Name, tm.Phone)
	}
	if r.IDCardURL != "" {
		fmt.Fprintf(w, "id card\t%s\n", r.IDCardURL)
	}
	if r.TeamLeaderIDCardURL != "" {
		fmt.Fprintf(w, "leader id card\t%s\n", r.TeamLeaderIDCardURL)
	}
	fmt.Fprintf(w, "payment proof\t%s\nverified\t%t\n", r.PaymentScreenshotURL, r.IsActive)
	return w.Flush()
}

func (s *shell) upload(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	f, err := os.Open(args[2])
	if err != nil {
		return fmt.Errorf("%w: %v", admin.ErrValidation, err)
	}
	defer f.Close()
	asset, err := s.panel.Upload(ctx, args[0], args[1], f.Name(), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s (%s)\n", asset.URL, asset.Type)
	return nil
}
