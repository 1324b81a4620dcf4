package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"marina-backend/models"
	"marina-backend/services"
)

func testDay(n int) time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

type controllerFixture struct {
	bc       *BookingController
	svc      *services.BookingService
	db       *gorm.DB
	owner    models.Owner
	slip     models.Slip
	customer models.Customer
}

func newControllerFixture(t *testing.T) *controllerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Owner{},
		&models.Customer{},
		&models.Slip{},
		&models.Coupon{},
		&models.Booking{},
		&models.CancellationRequest{},
	))

	f := &controllerFixture{db: db}
	f.owner = models.Owner{FullName: "Harbor Master", Email: "owner@test.local", Password: "x"}
	require.NoError(t, db.Create(&f.owner).Error)
	f.slip = models.Slip{OwnerID: f.owner.ID, SlipNumber: "A-01", DailyRate: decimal.NewFromInt(100), Active: true}
	require.NoError(t, db.Create(&f.slip).Error)
	f.customer = models.Customer{FullName: "First Boater", Email: "boater@test.local", Password: "x"}
	require.NoError(t, db.Create(&f.customer).Error)

	pricing := services.NewPricingService(decimal.RequireFromString("0.10"), services.NewCouponService(db))
	f.svc = services.NewBookingService(db, services.NewIntervalIndex(), pricing)
	f.bc = NewBookingController(f.svc, services.NewSandboxChargeAuthority(), services.LogNotifier{}, "USD", time.Second)
	return f
}

func (f *controllerFixture) pendingBooking(t *testing.T, start, end time.Time) *models.Booking {
	t.Helper()
	booking, err := f.svc.Create(context.Background(), services.CreateBookingInput{
		SlipID:     f.slip.ID,
		CustomerID: f.customer.ID,
		CheckIn:    start,
		CheckOut:   end,
	})
	require.NoError(t, err)
	return booking
}

func authedRequest(accountID uint, bookingID uint) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(uint64(bookingID), 10)}}
	c.Set("accountID", accountID)
	return c, w
}

func TestAbandonBooking_RejectsOtherCustomers(t *testing.T) {
	f := newControllerFixture(t)
	booking := f.pendingBooking(t, testDay(0), testDay(3))

	stranger := models.Customer{FullName: "Second Boater", Email: "other@test.local", Password: "x"}
	require.NoError(t, f.db.Create(&stranger).Error)

	c, w := authedRequest(stranger.ID, booking.ID)
	f.bc.AbandonBooking(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The booking and its held interval are untouched.
	var reloaded models.Booking
	require.NoError(t, f.db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingStatusPending, reloaded.Status)
	assert.True(t, f.svc.Index.Occupied(f.slip.ID, testDay(0), testDay(3)))

	c, w = authedRequest(f.customer.ID, booking.ID)
	f.bc.AbandonBooking(c)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, f.db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingStatusCancelled, reloaded.Status)
}

func TestConfirmBooking_RejectsOtherCustomers(t *testing.T) {
	f := newControllerFixture(t)
	booking := f.pendingBooking(t, testDay(0), testDay(3))

	stranger := models.Customer{FullName: "Second Boater", Email: "other@test.local", Password: "x"}
	require.NoError(t, f.db.Create(&stranger).Error)

	c, w := authedRequest(stranger.ID, booking.ID)
	f.bc.ConfirmBooking(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No charge was recorded and the booking stays pending.
	var reloaded models.Booking
	require.NoError(t, f.db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingStatusPending, reloaded.Status)
	assert.Empty(t, reloaded.ChargeReference)

	c, w = authedRequest(f.customer.ID, booking.ID)
	f.bc.ConfirmBooking(c)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, f.db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, reloaded.Status)
	assert.NotEmpty(t, reloaded.ChargeReference)
}

func TestCompleteBooking_RequiresSlipOwner(t *testing.T) {
	f := newControllerFixture(t)
	booking := f.pendingBooking(t, testDay(0), testDay(3))

	_, err := f.svc.Confirm(context.Background(), booking.ID, "charge-1")
	require.NoError(t, err)
	f.svc.Now = func() time.Time { return testDay(5) }

	rival := models.Owner{FullName: "Other Marina", Email: "rival@test.local", Password: "x"}
	require.NoError(t, f.db.Create(&rival).Error)

	c, w := authedRequest(rival.ID, booking.ID)
	f.bc.CompleteBooking(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var reloaded models.Booking
	require.NoError(t, f.db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, reloaded.Status)

	c, w = authedRequest(f.owner.ID, booking.ID)
	f.bc.CompleteBooking(c)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, f.db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingStatusCompleted, reloaded.Status)
}
