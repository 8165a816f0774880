package admission

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/dotstart/stockpile-go/internal/stockpile/common/log"
	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
)

type MockDecider struct {
	mock.Mock
}

func (m *MockDecider) Decide(address string) (domain.BlacklistDecision, error) {
	args := m.Called(address)
	return args.Get(0).(domain.BlacklistDecision), args.Error(1)
}

// blacklistDecider evaluates directly against a domain blacklist.
type blacklistDecider struct {
	bl domain.Blacklist
}

func (d blacklistDecider) Decide(address string) (domain.BlacklistDecision, error) {
	c, ok, err := d.bl.Match(address)
	if err != nil {
		return domain.AllowDecision(), err
	}
	return domain.BlacklistDecision{Blocked: ok, Matched: c}, nil
}

func TestAdmit(t *testing.T) {
	m := &MockDecider{}
	m.On("Decide", "10.0.0.1").Return(domain.BlacklistDecision{Blocked: true, Matched: "10.*"}, nil)
	m.On("Decide", "mc.example.com").Return(domain.AllowDecision(), nil)
	m.On("Decide", "1.2.3").Return(domain.AllowDecision(), &domain.InvalidAddressError{Address: "1.2.3", Reason: "x"})

	s := New(Options{Decider: m, Logger: log.NewNoopLogger()})

	ok, err := s.Admit("10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Admit("mc.example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Admit("1.2.3")
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	assert.False(t, ok)

	m.AssertExpectations(t)
}

func TestFilter(t *testing.T) {
	bl := domain.NewBlacklist([]string{domain.Digest("10.100.*"), domain.Digest("*.example")})
	s := New(Options{Decider: blacklistDecider{bl: bl}, Logger: log.NewNoopLogger()})

	matched, err := s.Filter([]string{
		"play.mc.example.com",
		"10.100.200.1",
		"10.101.0.1",
		"example.com",
		"10.100.200.1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"10.100.200.1", "play.mc.example.com"}, matched)
}

func TestFilter_CombinesInvalidAddresses(t *testing.T) {
	bl := domain.NewBlacklist([]string{domain.Digest("10.*")})
	s := New(Options{Decider: blacklistDecider{bl: bl}})

	matched, err := s.Filter([]string{"1.2.3", "10.0.0.1", ""})
	assert.Equal(t, []string{"10.0.0.1"}, matched)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.True(t, errors.Is(err, domain.ErrInvalidAddress))
}

func TestFilter_Empty(t *testing.T) {
	s := New(Options{Decider: blacklistDecider{bl: domain.NewBlacklist(nil)}})
	matched, err := s.Filter(nil)
	require.NoError(t, err)
	assert.Empty(t, matched)
}
