package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// Integration tests against a real MySQL instance. They run only when
// TEST_DATABASE_DSN points at a database with the migrations applied,
// e.g. "root@tcp(localhost:3306)/hotel_test?parseTime=true&loc=UTC".
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type fixture struct {
	guestID    uint64
	operatorID uint64
	hotelID    uint64
	roomID     uint64
}

// newFixture creates an operator with one hotel and one room plus a
// guest account. Names are unique per test run so repeated runs do not
// collide on unique keys.
func newFixture(t *testing.T, db *sql.DB) fixture {
	t.Helper()
	ctx := context.Background()
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())

	var f fixture
	res, err := db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?, 'x', 'OPERATOR')",
		"op-"+suffix+"@test.local")
	if err != nil {
		t.Fatalf("insert operator: %v", err)
	}
	id, _ := res.LastInsertId()
	f.operatorID = uint64(id)

	res, err = db.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, role) VALUES (?, 'x', 'GUEST')",
		"guest-"+suffix+"@test.local")
	if err != nil {
		t.Fatalf("insert guest: %v", err)
	}
	id, _ = res.LastInsertId()
	f.guestID = uint64(id)

	hotels := NewHotelRepo(db)
	h := &model.Hotel{OperatorID: f.operatorID, Name: "Hotel " + suffix, City: "Testville", Address: "1 Main St"}
	if err := hotels.Create(ctx, h); err != nil {
		t.Fatalf("create hotel: %v", err)
	}
	f.hotelID = h.ID

	rooms := NewRoomRepo(db)
	rm := &model.Room{
		HotelID:        f.hotelID,
		Name:           "Room " + suffix,
		GuestCapacity:  2,
		BasePriceCents: 10000,
		TaxRatePercent: 20,
		TaxesCents:     1500,
		IsAvailable:    true,
	}
	if err := rooms.Create(ctx, f.operatorID, rm); err != nil {
		t.Fatalf("create room: %v", err)
	}
	f.roomID = rm.ID
	return f
}

func mustBook(t *testing.T, db *sql.DB, f fixture, checkIn, checkOut string) *model.Reservation {
	t.Helper()
	ctx := context.Background()
	repo := NewReservationRepo(db)
	rng, err := booking.ParseDateRange(checkIn, checkOut)
	if err != nil {
		t.Fatalf("parse range: %v", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback()

	conflict, err := repo.RoomConflictExistsTx(ctx, tx, f.roomID, rng)
	if err != nil {
		t.Fatalf("conflict check: %v", err)
	}
	if conflict {
		t.Fatalf("unexpected conflict for %s..%s", checkIn, checkOut)
	}
	res := &model.Reservation{
		RoomID:      f.roomID,
		GuestUserID: f.guestID,
		CheckIn:     rng.CheckIn,
		CheckOut:    rng.CheckOut,
		GuestCount:  1,
		GuestName:   "Test Guest",
		GuestEmail:  "guest@test.local",
		GuestPhone:  "555-0100",
	}
	if err := repo.CreateTx(ctx, tx, res); err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	return res
}

func TestCreateAndConflict(t *testing.T) {
	db := testDB(t)
	f := newFixture(t, db)
	repo := NewReservationRepo(db)
	ctx := context.Background()

	rsv := mustBook(t, db, f, "2031-03-01", "2031-03-05")
	if rsv.Status != booking.StatusPending {
		t.Fatalf("new reservation status = %s, want PENDING", rsv.Status)
	}

	// Overlapping range conflicts.
	overlap, _ := booking.ParseDateRange("2031-03-04", "2031-03-08")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback()
	conflict, err := repo.RoomConflictExistsTx(ctx, tx, f.roomID, overlap)
	if err != nil {
		t.Fatalf("conflict check: %v", err)
	}
	if !conflict {
		t.Fatal("overlapping range should conflict")
	}

	// Back-to-back stay starting on the check-out day does not.
	adjacent, _ := booking.ParseDateRange("2031-03-05", "2031-03-09")
	conflict, err = repo.RoomConflictExistsTx(ctx, tx, f.roomID, adjacent)
	if err != nil {
		t.Fatalf("conflict check: %v", err)
	}
	if conflict {
		t.Fatal("back-to-back range should not conflict")
	}

	ids, err := repo.ConflictingRoomIDs(ctx, f.hotelID, overlap)
	if err != nil {
		t.Fatalf("conflicting room ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != f.roomID {
		t.Fatalf("conflicting room ids = %v, want [%d]", ids, f.roomID)
	}
}

func TestStatusCompareAndSwap(t *testing.T) {
	db := testDB(t)
	f := newFixture(t, db)
	repo := NewReservationRepo(db)
	ctx := context.Background()

	rsv := mustBook(t, db, f, "2031-04-01", "2031-04-03")

	confirm := func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			t.Fatalf("begin tx: %v", err)
		}
		defer tx.Rollback()
		if err := repo.UpdateStatusTx(ctx, tx, rsv.ID, booking.StatusPending, booking.StatusConfirmed, f.operatorID, nil); err != nil {
			return err
		}
		return tx.Commit()
	}

	if err := confirm(); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	// The second CAS from PENDING must report a conflict.
	if err := confirm(); !errors.Is(err, ErrConflict) {
		t.Fatalf("second confirm err = %v, want ErrConflict", err)
	}

	detail, err := repo.GetDetail(ctx, rsv.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail.Status != string(booking.StatusConfirmed) {
		t.Fatalf("status = %s, want CONFIRMED", detail.Status)
	}
	if detail.ConfirmedAt == nil || detail.ConfirmedBy == nil || *detail.ConfirmedBy != f.operatorID {
		t.Fatal("confirmation audit fields not set")
	}
}

// TestConcurrentCreate races two transactions for the same room and
// dates. The room row lock serializes them, so exactly one insert must
// land.
func TestConcurrentCreate(t *testing.T) {
	db := testDB(t)
	f := newFixture(t, db)
	reservations := NewReservationRepo(db)
	rooms := NewRoomRepo(db)
	ctx := context.Background()
	rng, _ := booking.ParseDateRange("2031-05-10", "2031-05-12")

	attempt := func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()
		if _, err := rooms.GetBookingInfoTx(ctx, tx, f.roomID); err != nil {
			return err
		}
		conflict, err := reservations.RoomConflictExistsTx(ctx, tx, f.roomID, rng)
		if err != nil {
			return err
		}
		if conflict {
			return ErrConflict
		}
		res := &model.Reservation{
			RoomID:      f.roomID,
			GuestUserID: f.guestID,
			CheckIn:     rng.CheckIn,
			CheckOut:    rng.CheckOut,
			GuestCount:  1,
			GuestName:   "Racer",
			GuestEmail:  "racer@test.local",
			GuestPhone:  "555-0101",
		}
		if err := reservations.CreateTx(ctx, tx, res); err != nil {
			return err
		}
		return tx.Commit()
	}

	const racers = 4
	errs := make(chan error, racers)
	for i := 0; i < racers; i++ {
		go func() { errs <- attempt() }()
	}

	var created, conflicted int
	for i := 0; i < racers; i++ {
		switch err := <-errs; {
		case err == nil:
			created++
		case errors.Is(err, ErrConflict):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created != 1 || conflicted != racers-1 {
		t.Fatalf("created=%d conflicted=%d, want 1 and %d", created, conflicted, racers-1)
	}
}

func TestConfirmedStaysFeedReports(t *testing.T) {
	db := testDB(t)
	f := newFixture(t, db)
	repo := NewReservationRepo(db)
	ctx := context.Background()

	rsv := mustBook(t, db, f, "2031-06-01", "2031-06-05")
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	if err := repo.UpdateStatusTx(ctx, tx, rsv.ID, booking.StatusPending, booking.StatusConfirmed, f.operatorID, nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	// A pending stay must not contribute.
	mustBook(t, db, f, "2031-07-01", "2031-07-03")

	stays, err := repo.ConfirmedStays(ctx, f.hotelID)
	if err != nil {
		t.Fatalf("confirmed stays: %v", err)
	}
	if len(stays) != 1 {
		t.Fatalf("stays = %d, want 1", len(stays))
	}
	// 4 nights at 10000 + 20% tax.
	if got := stays[0].AmountCents(); got != 48000 {
		t.Fatalf("stay amount = %d, want 48000", got)
	}
}

func TestMessageThreadAccess(t *testing.T) {
	db := testDB(t)
	f := newFixture(t, db)
	messages := NewMessageRepo(db)
	ctx := context.Background()

	rsv := mustBook(t, db, f, "2031-08-01", "2031-08-03")

	access, err := messages.GetThreadAccess(ctx, rsv.ID)
	if err != nil {
		t.Fatalf("thread access: %v", err)
	}
	if !access.Participant(f.guestID) || !access.Participant(f.operatorID) {
		t.Fatal("guest and operator must both be participants")
	}
	if access.Participant(f.guestID + f.operatorID + 1000) {
		t.Fatal("stranger must not be a participant")
	}
	if !access.Status.Active() {
		t.Fatal("fresh reservation thread should accept messages")
	}

	m := &model.ReservationMessage{ReservationID: rsv.ID, SenderID: f.guestID, Body: "early check-in possible?"}
	if err := messages.Create(ctx, m); err != nil {
		t.Fatalf("create message: %v", err)
	}
	if m.ID == 0 || m.CreatedAt.IsZero() {
		t.Fatal("message id and timestamp should be populated")
	}

	reply := &model.ReservationMessage{ReservationID: rsv.ID, SenderID: f.operatorID, Body: "from 11:00, yes"}
	if err := messages.Create(ctx, reply); err != nil {
		t.Fatalf("create reply: %v", err)
	}

	thread, err := messages.ListByReservation(ctx, rsv.ID)
	if err != nil {
		t.Fatalf("list thread: %v", err)
	}
	if len(thread) != 2 {
		t.Fatalf("thread length = %d, want 2", len(thread))
	}
	if thread[0].ID != m.ID || thread[1].ID != reply.ID {
		t.Fatal("thread must be ordered oldest first")
	}

	if _, err := messages.GetThreadAccess(ctx, rsv.ID+99999); !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("missing reservation err = %v, want ErrReservationNotFound", err)
	}
}
