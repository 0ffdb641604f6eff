package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/partywall/api/internal/model"
	"gorm.io/gorm"
)

func newWallRouter(db *gorm.DB, t *testing.T) *gin.Engine {
	hub := setupTestHub(t)

	wishHandler := NewWishHandler(db, hub)
	memoryHandler := NewMemoryHandler(db, hub)

	r := gin.New()
	r.POST("/api/wishes", wishHandler.Submit)
	r.GET("/api/admin/wishes", wishHandler.List)
	r.DELETE("/api/admin/wishes/:id", wishHandler.Delete)
	r.POST("/api/memories", memoryHandler.Submit)
	r.GET("/api/memories", memoryHandler.List)
	r.DELETE("/api/admin/memories/:id", memoryHandler.Delete)
	return r
}

func TestSubmitWishRejectsBlank(t *testing.T) {
	db := setupTestDB(t)
	r := newWallRouter(db, t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"empty", gin.H{}},
		{"whitespace only", gin.H{"advice": "   ", "loveFrom": "\t"}},
		{"name only", gin.H{"displayName": "Femi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, "POST", "/api/wishes", tt.body)
			wantStatus(t, w, http.StatusBadRequest)
		})
	}

	var count int64
	db.Model(&model.WishResponse{}).Count(&count)
	if count != 0 {
		t.Errorf("%d rows written by rejected submissions, want 0", count)
	}
}

func TestSubmitWish(t *testing.T) {
	db := setupTestDB(t)
	r := newWallRouter(db, t)

	w := doJSON(t, r, "POST", "/api/wishes", gin.H{
		"displayName": "Segun",
		"advice":      "Stay curious.",
		"loveFrom":    "Ada",
	})
	wantStatus(t, w, http.StatusCreated)

	var wish model.WishResponse
	decodeBody(t, w, &wish)

	if wish.EventKey != model.DefaultEventKey {
		t.Errorf("event_key = %q, want %q", wish.EventKey, model.DefaultEventKey)
	}

	var count int64
	db.Model(&model.WishResponse{}).Where("event_key = ?", model.DefaultEventKey).Count(&count)
	if count != 1 {
		t.Errorf("%d rows written, want exactly 1", count)
	}
}

func TestSubmitWishOneFieldSuffices(t *testing.T) {
	db := setupTestDB(t)
	r := newWallRouter(db, t)

	w := doJSON(t, r, "POST", "/api/wishes", gin.H{"loveFrom": "Tunde"})
	wantStatus(t, w, http.StatusCreated)

	var wish model.WishResponse
	decodeBody(t, w, &wish)
	if wish.Advice != nil {
		t.Errorf("advice = %v, want nil", *wish.Advice)
	}
	if wish.LoveFrom == nil || *wish.LoveFrom != "Tunde" {
		t.Errorf("loveFrom = %v, want Tunde", wish.LoveFrom)
	}
}

func TestWishListAndDelete(t *testing.T) {
	db := setupTestDB(t)
	r := newWallRouter(db, t)

	w := doJSON(t, r, "POST", "/api/wishes", gin.H{"advice": "first"})
	wantStatus(t, w, http.StatusCreated)
	var wish model.WishResponse
	decodeBody(t, w, &wish)

	w = doJSON(t, r, "GET", "/api/admin/wishes", nil)
	wantStatus(t, w, http.StatusOK)
	var wishes []model.WishResponse
	decodeBody(t, w, &wishes)
	if len(wishes) != 1 {
		t.Fatalf("list returned %d wishes, want 1", len(wishes))
	}

	w = doJSON(t, r, "DELETE", "/api/admin/wishes/"+wish.ID, nil)
	wantStatus(t, w, http.StatusOK)

	w = doJSON(t, r, "DELETE", "/api/admin/wishes/"+wish.ID, nil)
	wantStatus(t, w, http.StatusNotFound)
}

func TestSubmitMemory(t *testing.T) {
	db := setupTestDB(t)
	r := newWallRouter(db, t)

	w := doJSON(t, r, "POST", "/api/memories", gin.H{})
	wantStatus(t, w, http.StatusBadRequest)

	w = doJSON(t, r, "POST", "/api/memories", gin.H{
		"memory":   "That one time at the beach.",
		"loveFrom": "Femi",
	})
	wantStatus(t, w, http.StatusCreated)

	w = doJSON(t, r, "GET", "/api/memories", nil)
	wantStatus(t, w, http.StatusOK)

	var entries []model.MemoryResponse
	decodeBody(t, w, &entries)
	if len(entries) != 1 {
		t.Fatalf("wall has %d entries, want 1", len(entries))
	}
	if entries[0].EventKey != model.DefaultEventKey {
		t.Errorf("event_key = %q, want %q", entries[0].EventKey, model.DefaultEventKey)
	}
}
