package seed

import (
	"fmt"
	"strings"
	"time"

	"shiftswap/internal/models"
	"shiftswap/internal/service"
	"shiftswap/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory generates lifecycle inputs from a dedicated faker so runs with the
// same RandSeed produce the same data.
type Factory struct {
	faker  *gofakeit.Faker
	opts   Options
	nextID int64
}

// NewFactory normalizes opts and seeds the faker.
func NewFactory(opts Options) *Factory {
	if opts.Days <= 0 {
		opts.Days = 30
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now()
	}
	if opts.MaxRequestsPerShift < 0 {
		opts.MaxRequestsPerShift = 0
	}
	return &Factory{
		faker:  gofakeit.New(opts.RandSeed),
		opts:   opts,
		nextID: 100000000,
	}
}

// AuthInput returns a fresh identity with a unique telegram id and an ldap
// login derived from the generated name.
func (f *Factory) AuthInput() service.AuthInput {
	f.nextID += int64(f.faker.Number(1, 9999))
	first := f.faker.FirstName()
	last := f.faker.LastName()
	ldap := strings.ToLower(fmt.Sprintf("%s.%s%d", first, last, f.faker.Number(1, 99)))
	username := f.faker.Username()

	return service.AuthInput{
		TelegramID: fmt.Sprintf("%d", f.nextID),
		LDAP:       ldap,
		FirstName:  first,
		Username:   &username,
	}
}

// ShiftInput returns a shift for owner somewhere inside the configured window.
// Hours shifts get a window of 2 to 8 hours starting on the hour.
func (f *Factory) ShiftInput(owner string) service.CreateShiftInput {
	date := f.opts.Start.AddDate(0, 0, f.faker.Number(0, f.opts.Days-1))
	in := service.CreateShiftInput{
		OwnerID: owner,
		Date:    date.Format(validation.DateLayout),
		Type:    models.ShiftTypes[f.faker.Number(0, len(models.ShiftTypes)-1)],
	}
	if in.Type == models.ShiftTypeHours {
		startHour := f.faker.Number(6, 14)
		length := f.faker.Number(2, 8)
		start := fmt.Sprintf("%02d:00", startHour)
		end := fmt.Sprintf("%02d:00", startHour+length)
		in.StartTime = &start
		in.EndTime = &end
	}
	return in
}

// PickRequesters returns up to MaxRequestsPerShift distinct users other than owner.
func (f *Factory) PickRequesters(users []*models.User, owner string) []*models.User {
	candidates := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.TelegramID != owner {
			candidates = append(candidates, u)
		}
	}
	f.faker.ShuffleAnySlice(candidates)

	n := 0
	if f.opts.MaxRequestsPerShift > 0 {
		n = f.faker.Number(0, f.opts.MaxRequestsPerShift)
	}
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

// Intn returns a value in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

// Chance reports true with probability p.
func (f *Factory) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return f.faker.Float64Range(0, 1) < p
}
