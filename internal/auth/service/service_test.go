package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/ratelimit"
	"github.com/sautiyetu/sauti/internal/auth/sms/mocks"
	"github.com/sautiyetu/sauti/internal/auth/store"
	"github.com/sautiyetu/sauti/internal/auth/store/drivers/sqlite"
	"github.com/sautiyetu/sauti/pkg/cryptox"
	"github.com/sautiyetu/sauti/pkg/jwtx"
	"github.com/sautiyetu/sauti/pkg/slogx"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const testPhone = "254712345678"

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type ServiceSuite struct {
	suite.Suite

	ctx     context.Context
	ctrl    *gomock.Controller
	sender  *mocks.MockSender
	store   *sqlite.Store
	clock   *testClock
	metrics *Metrics

	otp    *OTPService
	tokens *TokenService
	phone  *PhoneAuthService
	mfa    *MFAService
	admin  *AdminAuthService
	admins *AdminUserService
	geo    *GeographyService
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupSuite() {
	cryptox.SetPepperPath(filepath.Join(s.T().TempDir(), "pepper"))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.sender = mocks.NewMockSender(s.ctrl)
	s.clock = &testClock{now: time.Now().UTC().Truncate(time.Second)}
	s.metrics = NewMetrics(prometheus.NewRegistry())

	st, err := sqlite.NewStore(":memory:")
	s.Require().NoError(err)
	s.Require().NoError(st.ApplyMigrations())
	s.store = st

	pemKey, err := cryptox.GenerateEd25519Key()
	s.Require().NoError(err)
	signer, err := jwtx.NewSigner(pemKey)
	s.Require().NoError(err)

	s.tokens = NewTokenService(signer, st, "sauti-test", 0)
	s.tokens.Now = s.clock.Now

	s.otp = &OTPService{Store: st, Sender: s.sender, Metrics: s.metrics, Now: s.clock.Now}
	s.phone = &PhoneAuthService{Store: st, OTP: s.otp, Tokens: s.tokens, Metrics: s.metrics, Now: s.clock.Now}
	s.mfa = &MFAService{Store: st, Issuer: "Sauti", Now: s.clock.Now}
	s.admin = &AdminAuthService{Store: st, Tokens: s.tokens, MFA: s.mfa, Metrics: s.metrics, Now: s.clock.Now}
	s.admins = &AdminUserService{Store: st, Tokens: s.tokens, Now: s.clock.Now}
	s.geo = &GeographyService{Store: st}
}

func (s *ServiceSuite) TearDownTest() {
	_ = s.store.Close()
}

// expectCode captures the code of the next SMS sent to phone.
func (s *ServiceSuite) expectCode(phone string) *string {
	var code string
	s.sender.EXPECT().
		Send(gomock.Any(), phone, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, msg string) error {
			code = codePattern.FindString(msg)
			return nil
		})
	return &code
}

func (s *ServiceSuite) requestCode(raw string) string {
	code := s.expectCode(testPhone)
	_, err := s.otp.Request(s.ctx, raw)
	s.Require().NoError(err)
	s.Require().Len(*code, 6)
	return *code
}

func (s *ServiceSuite) TestRequestOTPNormalisesAndSends() {
	var msg string
	s.sender.EXPECT().
		Send(gomock.Any(), testPhone, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, m string) error {
			msg = m
			return nil
		})

	issue, err := s.otp.Request(s.ctx, "0712 345 678")
	s.Require().NoError(err)
	s.Equal(testPhone, issue.Phone)
	s.Equal(600, issue.ExpiresIn)
	s.Regexp(`^Your Sauti verification code is \d{6}\. It expires in 10 minutes\.$`, msg)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.OTPRequests.WithLabelValues("sent")))
}

func (s *ServiceSuite) TestRequestOTPRejectsInvalidPhone() {
	_, err := s.otp.Request(s.ctx, "12345")
	s.ErrorIs(err, ErrInvalidPhoneFormat)
}

func (s *ServiceSuite) TestSecondRequestWhileActiveIsRateLimited() {
	s.requestCode("0712345678")

	s.clock.Advance(2 * time.Minute)
	_, err := s.otp.Request(s.ctx, "+254712345678")
	s.Require().ErrorIs(err, ErrRateLimited)

	var rl *RateLimitedError
	s.Require().True(errors.As(err, &rl))
	s.Equal(8*60, rl.RetryAfterSeconds())

	remaining, err := s.otp.RemainingTime(s.ctx, "0712345678")
	s.Require().NoError(err)
	s.Equal(8*60, remaining)
}

func (s *ServiceSuite) TestConcurrentRequestsIssueOneCode() {
	const goroutines = 20
	s.expectCode(testPhone)

	var wg sync.WaitGroup
	var sent, limited atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.otp.Request(s.ctx, "0712345678")
			switch {
			case err == nil:
				sent.Add(1)
			case errors.Is(err, ErrRateLimited):
				limited.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), sent.Load(), "exactly one request should send a code")
	s.Equal(int32(goroutines-1), limited.Load(), "all others should be rate limited")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.OTPRequests.WithLabelValues("sent")))
}

func (s *ServiceSuite) TestConcurrentLoginsCreateOneAccount() {
	const goroutines = 20
	code := s.requestCode("0712345678")

	var wg sync.WaitGroup
	var ok, rejected atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.phone.Login(s.ctx, "0712345678", code)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, ErrInvalidOrExpiredOTP):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), ok.Load(), "the code should log in exactly once")
	s.Equal(int32(goroutines-1), rejected.Load())

	accounts, err := s.store.Accounts().ListAccounts(s.ctx, store.AccountFilter{})
	s.Require().NoError(err)
	s.Len(accounts, 1)
}

func (s *ServiceSuite) TestRetryAfterInLastSecondOfCode() {
	s.clock.Advance(400 * time.Millisecond)
	s.requestCode("0712345678")

	s.clock.Advance(DefaultOTPWindow - 500*time.Millisecond)
	_, err := s.otp.Request(s.ctx, "0712345678")
	var rl *RateLimitedError
	s.Require().True(errors.As(err, &rl))
	s.Equal(1, rl.RetryAfterSeconds())

	remaining, err := s.otp.RemainingTime(s.ctx, "0712345678")
	s.Require().NoError(err)
	s.Equal(1, remaining)

	s.clock.Advance(200 * time.Millisecond)
	s.requestCode("0712345678")
}

func (s *ServiceSuite) TestNewRequestAllowedAfterExpiry() {
	first := s.requestCode("0712345678")

	s.clock.Advance(DefaultOTPWindow + time.Second)
	_, err := s.phone.Login(s.ctx, "0712345678", first)
	s.ErrorIs(err, ErrInvalidOrExpiredOTP)

	second := s.requestCode("0712345678")
	_, err = s.phone.Login(s.ctx, "0712345678", second)
	s.NoError(err)
}

func (s *ServiceSuite) TestDeliveryFailureIsNotReturned() {
	s.sender.EXPECT().Send(gomock.Any(), testPhone, gomock.Any()).Return(errors.New("gateway down"))

	_, err := s.otp.Request(s.ctx, "0712345678")
	s.NoError(err)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SMSFailures))
}

func (s *ServiceSuite) TestLoginCreatesNewUser() {
	code := s.requestCode("0712345678")

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err := s.phone.Login(s.ctx, "0712345678", wrong)
	s.Require().ErrorIs(err, ErrInvalidOrExpiredOTP)

	res, err := s.phone.Login(s.ctx, "0712345678", code)
	s.Require().NoError(err)
	s.True(res.IsNewUser)
	s.Equal(testPhone, res.Account.PhoneNumber)
	s.Equal(domain.PlaceholderName, res.Account.Name)
	s.NotEmpty(res.Token.Token)

	claims, err := s.tokens.Authenticate(s.ctx, res.Token.Token)
	s.Require().NoError(err)
	s.Equal(res.Account.ID, claims.Subject)
	s.True(claims.Can("posts.create"))
	s.False(claims.Can(domain.AbilityAdmin))

	// The code is single use.
	_, err = s.phone.Login(s.ctx, "0712345678", code)
	s.ErrorIs(err, ErrInvalidOrExpiredOTP)
}

func (s *ServiceSuite) TestVerifyConsumesCode() {
	code := s.requestCode("0712345678")
	s.Require().NoError(s.otp.Verify(s.ctx, "0712345678", code))
	s.ErrorIs(s.otp.Verify(s.ctx, "0712345678", code), ErrInvalidOrExpiredOTP)
	s.ErrorIs(s.otp.Verify(s.ctx, "0712345678", "12ab56"), ErrInvalidOrExpiredOTP)
}

func (s *ServiceSuite) TestLoginClearsExpiredSuspension() {
	acct := s.login()

	until := s.clock.now.Add(time.Hour)
	acct.IsSuspended = true
	acct.SuspendedUntil = &until
	s.Require().NoError(s.store.Accounts().UpdateAccount(s.ctx, acct))

	s.clock.Advance(2 * time.Hour)
	code := s.requestCode("0712345678")
	res, err := s.phone.Login(s.ctx, "0712345678", code)
	s.Require().NoError(err)
	s.False(res.Account.IsSuspended)
	s.Nil(res.Account.SuspendedUntil)

	stored, err := s.store.Accounts().GetAccountByID(s.ctx, acct.ID)
	s.Require().NoError(err)
	s.False(stored.IsSuspended)
}

func (s *ServiceSuite) TestLoginRejectsActiveSuspension() {
	acct := s.login()

	until := s.clock.now.Add(24 * time.Hour)
	acct.IsSuspended = true
	acct.SuspendedUntil = &until
	s.Require().NoError(s.store.Accounts().UpdateAccount(s.ctx, acct))

	code := s.requestCode("0712345678")
	_, err := s.phone.Login(s.ctx, "0712345678", code)
	s.Require().ErrorIs(err, ErrAccountSuspended)

	var susp *AccountSuspendedError
	s.Require().True(errors.As(err, &susp))
	s.Require().NotNil(susp.Until)
	s.True(susp.Until.Equal(until))

	// The code was consumed anyway.
	_, err = s.phone.Login(s.ctx, "0712345678", code)
	s.ErrorIs(err, ErrInvalidOrExpiredOTP)
}

func (s *ServiceSuite) TestLoginRateLimitedPerPhone() {
	s.phone.Guard = ratelimit.NewGuard(ratelimit.NewStoreLimiter(s.store.RateLimits()), nil)

	for range ratelimit.PolicyLogin.MaxAttempts {
		_, err := s.phone.Login(s.ctx, "0712345678", "999999")
		s.Require().ErrorIs(err, ErrInvalidOrExpiredOTP)
	}
	_, err := s.phone.Login(s.ctx, "0712345678", "999999")
	s.ErrorIs(err, ErrRateLimited)
}

func (s *ServiceSuite) TestCompleteRegistration() {
	acct := s.login()

	_, err := s.phone.CompleteRegistration(s.ctx, acct.ID, RegistrationInput{Name: " ", WardID: 1})
	s.ErrorIs(err, ErrInvalidRequest)

	_, err = s.phone.CompleteRegistration(s.ctx, acct.ID, RegistrationInput{Name: "user", WardID: 1})
	s.ErrorIs(err, ErrInvalidRequest)

	_, err = s.phone.CompleteRegistration(s.ctx, acct.ID, RegistrationInput{Name: "Akinyi", WardID: 999})
	s.ErrorIs(err, ErrWardNotFound)

	nakuru := int64(2)
	_, err = s.phone.CompleteRegistration(s.ctx, acct.ID, RegistrationInput{Name: "Akinyi", WardID: 1, CountyID: &nakuru})
	s.ErrorIs(err, ErrWardHierarchyMismatch)

	siaya := int64(1)
	got, err := s.phone.CompleteRegistration(s.ctx, acct.ID, RegistrationInput{Name: "  Akinyi Odhiambo ", WardID: 1, CountyID: &siaya})
	s.Require().NoError(err)
	s.Equal("Akinyi Odhiambo", got.Name)
	s.True(got.IsRegistrationComplete())

	_, err = s.phone.CompleteRegistration(s.ctx, acct.ID, RegistrationInput{Name: "Someone Else", WardID: 2})
	s.ErrorIs(err, ErrAlreadyRegistered)

	code := s.requestCode("0712345678")
	res, err := s.phone.Login(s.ctx, "0712345678", code)
	s.Require().NoError(err)
	s.False(res.IsNewUser)
}

func (s *ServiceSuite) TestLogoutRevokesToken() {
	code := s.requestCode("0712345678")
	first, err := s.phone.Login(s.ctx, "0712345678", code)
	s.Require().NoError(err)

	code = s.requestCode("0712345678")
	second, err := s.phone.Login(s.ctx, "0712345678", code)
	s.Require().NoError(err)

	s.Require().NoError(s.phone.Logout(s.ctx, first.Token.TokenID))
	_, err = s.tokens.Authenticate(s.ctx, first.Token.Token)
	s.ErrorIs(err, ErrInvalidToken)

	_, err = s.tokens.Authenticate(s.ctx, second.Token.Token)
	s.NoError(err)

	s.Require().NoError(s.phone.LogoutAll(s.ctx, second.Account.ID))
	_, err = s.tokens.Authenticate(s.ctx, second.Token.Token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestAuthenticateRejectsGarbage() {
	_, err := s.tokens.Authenticate(s.ctx, "not-a-token")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestGeography() {
	counties, err := s.geo.ListCounties(s.ctx)
	s.Require().NoError(err)
	s.Len(counties, 2)

	_, err = s.geo.ListConstituencies(s.ctx, 404)
	s.ErrorIs(err, ErrNotFound)

	wards, err := s.geo.ListWards(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(wards, 6)

	loc, err := s.geo.ResolveWard(s.ctx, wards[0].ID)
	s.Require().NoError(err)
	s.Equal(int64(1), loc.Constituency.ID)
}

func (s *ServiceSuite) TestClampOTPWindow() {
	s.Equal(DefaultOTPWindow, ClampOTPWindow(0))
	s.Equal(MinOTPWindow, ClampOTPWindow(time.Minute))
	s.Equal(MaxOTPWindow, ClampOTPWindow(time.Hour))
	s.Equal(7*time.Minute, ClampOTPWindow(7*time.Minute))
}

// login runs a full OTP login for testPhone and returns the account.
func (s *ServiceSuite) login() domain.Account {
	code := s.requestCode("0712345678")
	res, err := s.phone.Login(s.ctx, "0712345678", code)
	s.Require().NoError(err)
	return res.Account
}

func discardLogger() *slog.Logger { return slogx.Discard() }
