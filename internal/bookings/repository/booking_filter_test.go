package repository

import (
	"reflect"
	"testing"
	"time"

	"rezzy/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildDayFilterWithoutStaff(t *testing.T) {
	got := buildDayFilter("tenant-1", "2026-03-10", "")

	want := bson.M{
		"tenant_id":    "tenant-1",
		"booking_date": "2026-03-10",
		"status":       bson.M{"$ne": model.StatusCancelled},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("buildDayFilter() = %v, want %v", got, want)
	}
}

func TestBuildDayFilterStaffIncludesUnassigned(t *testing.T) {
	got := buildDayFilter("tenant-1", "2026-03-10", "staff-7")

	or, ok := got["$or"].([]bson.M)
	if !ok {
		t.Fatalf("expected $or clause for staffed query, got %v", got)
	}

	want := []bson.M{
		{"staff_id": "staff-7"},
		{"staff_id": bson.M{"$exists": false}},
		{"staff_id": ""},
	}
	if !reflect.DeepEqual(or, want) {
		t.Errorf("$or = %v, want %v", or, want)
	}
	if _, present := got["staff_id"]; present {
		t.Error("staff_id must not appear as a top-level exact match")
	}
}

func TestApplyStaffFilterNoStaffLeavesFilterAlone(t *testing.T) {
	filter := bson.M{"tenant_id": "tenant-1"}
	applyStaffFilter(filter, "")

	if _, present := filter["$or"]; present {
		t.Error("unstaffed query must not add an $or clause")
	}
}

func TestBuildUpdateKeepsAssignedStaff(t *testing.T) {
	booking := &model.Booking{
		StaffID: "staff-7",
		Date:    "2026-03-10",
		StartAt: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 3, 10, 11, 5, 0, 0, time.UTC),
		Status:  model.StatusConfirmed,
	}

	update := buildUpdate(booking)

	set := update["$set"].(bson.M)
	if set["staff_id"] != "staff-7" {
		t.Errorf("$set staff_id = %v, want staff-7", set["staff_id"])
	}
	if _, present := update["$unset"]; present {
		t.Error("assigned booking must not unset staff_id")
	}
}

func TestBuildUpdateUnsetsEmptyStaff(t *testing.T) {
	booking := &model.Booking{
		Date:    "2026-03-10",
		StartAt: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2026, 3, 10, 11, 5, 0, 0, time.UTC),
		Status:  model.StatusConfirmed,
	}

	update := buildUpdate(booking)

	set := update["$set"].(bson.M)
	if _, present := set["staff_id"]; present {
		t.Error("unassigned booking must not write staff_id into $set")
	}

	unset, ok := update["$unset"].(bson.M)
	if !ok {
		t.Fatal("unassigned booking must carry an $unset clause")
	}
	if _, present := unset["staff_id"]; !present {
		t.Error("$unset must target staff_id")
	}
}

func TestBuildListFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter *model.BookingFilter
		want   bson.M
	}{
		{
			name:   "nil filter matches everything",
			filter: nil,
			want:   bson.M{},
		},
		{
			name:   "tenant and status",
			filter: &model.BookingFilter{TenantID: "tenant-1", Status: model.StatusPending},
			want:   bson.M{"tenant_id": "tenant-1", "status": model.StatusPending},
		},
		{
			name:   "date range",
			filter: &model.BookingFilter{TenantID: "tenant-1", DateFrom: "2026-03-01", DateTo: "2026-03-31"},
			want: bson.M{
				"tenant_id":    "tenant-1",
				"booking_date": bson.M{"$gte": "2026-03-01", "$lte": "2026-03-31"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildListFilter(tt.filter); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildListFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}
