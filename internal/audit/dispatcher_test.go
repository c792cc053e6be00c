package audit_test

import (
	"testing"

	"github.com/BruksfildServices01/tour-booking/internal/audit"
	"github.com/BruksfildServices01/tour-booking/internal/models"
	"github.com/BruksfildServices01/tour-booking/internal/testutil"
)

func TestDispatcherPersistsEvents(t *testing.T) {
	db := testutil.NewDB(t)
	d := audit.NewDispatcher(audit.New(db))

	uid, bid := uint(7), uint(42)
	d.Dispatch(audit.Event{
		UserID:   &uid,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &bid,
		Metadata: map[string]any{"group_size": 3},
	})
	d.Close()

	var logs []models.AuditLog
	if err := db.Find(&logs).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d audit rows", len(logs))
	}
	if logs[0].Action != "booking_created" || *logs[0].EntityID != 42 {
		t.Fatalf("row = %+v", logs[0])
	}
	if string(logs[0].Metadata) != `{"group_size":3}` {
		t.Fatalf("metadata = %s", logs[0].Metadata)
	}
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *audit.Dispatcher
	d.Dispatch(audit.Event{Action: "ignored"})
	d.Close()
}
