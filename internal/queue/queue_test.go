package queue

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking/internal/model"
)

type fakeNotifier struct {
	got []BookingEvent
	err error
}

func (f *fakeNotifier) Notify(ev BookingEvent) error {
	f.got = append(f.got, ev)
	return f.err
}

func sampleEvent() BookingEvent {
	b := &model.Booking{
		ID: 3, Reference: "ref-3", RoomID: 1, RoomType: "Deluxe", GuestName: "Ann", GuestEmail: "ann@example.com",
		CheckIn: model.NewDate(2025, 7, 1), CheckOut: model.NewDate(2025, 7, 3), Nights: 2, TotalCents: 20000,
		Status: model.BookingPending,
	}
	room := &model.Room{ID: 1, Number: "101"}
	return NewBookingEvent(EventBookingCreated, b, room, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

func TestNewBookingEvent(t *testing.T) {
	ev := sampleEvent()
	assert.Equal(t, "101", ev.RoomNumber)
	assert.Equal(t, "2025-07-01", ev.CheckIn)
	assert.Equal(t, "2025-06-01T12:00:00Z", ev.OccurredAt)

	noRoom := NewBookingEvent(EventBookingCancelled, &model.Booking{ID: 1}, nil, time.Now())
	assert.Empty(t, noRoom.RoomNumber)
}

func TestFormatLogLine(t *testing.T) {
	line := FormatLogLine(sampleEvent())
	assert.Equal(t,
		`[2025-06-01T12:00:00Z] booking.created | booking_id=3 | ref=ref-3 | room="101" | guest="Ann" | stay=2025-07-01..2025-07-03 | nights=2 | total=200.00 | status=pending`+"\n",
		line)
}

func TestHandleMessageAppendsAndNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "booking.log")
	n := &fakeNotifier{}
	c := &Consumer{LogPath: path, Notifier: n}

	body, err := json.Marshal(sampleEvent())
	require.NoError(t, err)
	require.NoError(t, c.HandleMessage(body))
	require.NoError(t, c.HandleMessage(body))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "booking_id=3"))
	require.Len(t, n.got, 2)
	assert.Equal(t, "ref-3", n.got[0].Reference)
}

func TestHandleMessageNotifierFailureStillAcks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booking.log")
	c := &Consumer{LogPath: path, Notifier: &fakeNotifier{err: errors.New("telegram down")}}
	body, err := json.Marshal(sampleEvent())
	require.NoError(t, err)
	assert.NoError(t, c.HandleMessage(body))
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	c := &Consumer{LogPath: filepath.Join(t.TempDir(), "booking.log")}
	assert.Error(t, c.HandleMessage([]byte("{not json")))
}
