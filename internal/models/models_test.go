package models

import (
	"testing"
)

func TestAccessoryStock_Total(t *testing.T) {
	s := &AccessoryStock{MainStock: 5, PrabhuStock: 2, TamilStock: 7}
	if got := s.Total(); got != 14 {
		t.Errorf("Total() = %d, want 14", got)
	}
}

func TestTVUnit_IsAvailable(t *testing.T) {
	tests := []struct {
		status UnitStatus
		want   bool
	}{
		{UnitAvailable, true},
		{UnitSold, false},
		{"", false},
	}
	for _, tt := range tests {
		u := &TVUnit{Status: tt.status}
		if got := u.IsAvailable(); got != tt.want {
			t.Errorf("IsAvailable() with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestUser_IsAdmin(t *testing.T) {
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin role should be admin")
	}
	if (&User{Role: RoleStaff}).IsAdmin() {
		t.Error("staff role should not be admin")
	}
}

func TestTableNames(t *testing.T) {
	tests := []struct {
		model interface{ TableName() string }
		want  string
	}{
		{User{}, "admin_login"},
		{TVUnit{}, "tv_inventory"},
		{AccessoryStock{}, "accessory_stock"},
		{B2CTVSale{}, "b2c_tv_sales"},
		{B2BTVSale{}, "b2b_tv_sales"},
		{AccessorySale{}, "b2c_accessory_sales"},
	}
	for _, tt := range tests {
		if got := tt.model.TableName(); got != tt.want {
			t.Errorf("TableName() = %q, want %q", got, tt.want)
		}
	}
}
