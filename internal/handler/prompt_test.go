package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/partywall/api/internal/model"
	"gorm.io/gorm"
)

func newPromptRouter(db *gorm.DB, t *testing.T) *gin.Engine {
	hub := setupTestHub(t)
	promptHandler := NewPromptHandler(db, hub)

	r := gin.New()
	r.GET("/api/categories", promptHandler.ListCategories)
	r.GET("/api/categories/:id/questions", promptHandler.ListByCategory)
	r.POST("/api/admin/questions", promptHandler.Add)
	r.DELETE("/api/admin/questions/:id", promptHandler.Delete)
	r.POST("/api/admin/questions/reorder", promptHandler.Reorder)
	return r
}

func createCategory(t *testing.T, db *gorm.DB, title string) model.Category {
	t.Helper()

	category := model.Category{Title: title, Type: "wish_wall"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return category
}

func addPrompt(t *testing.T, r *gin.Engine, categoryID, text string) model.Question {
	t.Helper()

	w := doJSON(t, r, "POST", "/api/admin/questions", gin.H{
		"categoryId": categoryID,
		"text":       text,
	})
	wantStatus(t, w, http.StatusCreated)

	var question model.Question
	decodeBody(t, w, &question)
	return question
}

func TestCategoryLookupByTitle(t *testing.T) {
	db := setupTestDB(t)
	r := newPromptRouter(db, t)
	createCategory(t, db, model.CategoryGraduationWishes)

	w := doJSON(t, r, "GET", "/api/categories?title=Graduation+Wishes", nil)
	wantStatus(t, w, http.StatusOK)

	var category model.Category
	decodeBody(t, w, &category)
	if category.Title != model.CategoryGraduationWishes {
		t.Errorf("title = %q, want %q", category.Title, model.CategoryGraduationWishes)
	}

	w = doJSON(t, r, "GET", "/api/categories?title=Nope", nil)
	wantStatus(t, w, http.StatusNotFound)
}

func TestAddPromptAppendsOrder(t *testing.T) {
	db := setupTestDB(t)
	r := newPromptRouter(db, t)
	category := createCategory(t, db, model.CategoryGraduationWishes)

	first := addPrompt(t, r, category.ID, "first")
	second := addPrompt(t, r, category.ID, "second")
	third := addPrompt(t, r, category.ID, "third")

	if first.QuestionOrder != 1 || second.QuestionOrder != 2 || third.QuestionOrder != 3 {
		t.Errorf("orders = %d, %d, %d; want 1, 2, 3",
			first.QuestionOrder, second.QuestionOrder, third.QuestionOrder)
	}
}

func TestReorderSwapsExactlyTwo(t *testing.T) {
	db := setupTestDB(t)
	r := newPromptRouter(db, t)
	category := createCategory(t, db, model.CategoryGraduationWishes)

	a := addPrompt(t, r, category.ID, "a")
	b := addPrompt(t, r, category.ID, "b")
	c := addPrompt(t, r, category.ID, "c")

	w := doJSON(t, r, "POST", "/api/admin/questions/reorder", gin.H{
		"a_id": a.ID,
		"b_id": b.ID,
	})
	wantStatus(t, w, http.StatusOK)

	var after []model.Question
	db.Where("category_id = ?", category.ID).Order("question_order ASC").Find(&after)

	if len(after) != 3 {
		t.Fatalf("%d prompts after reorder, want 3", len(after))
	}

	// a and b swapped; c untouched.
	if after[0].ID != b.ID || after[0].QuestionOrder != 1 {
		t.Errorf("position 1 = %s (order %d), want b at 1", after[0].Text, after[0].QuestionOrder)
	}
	if after[1].ID != a.ID || after[1].QuestionOrder != 2 {
		t.Errorf("position 2 = %s (order %d), want a at 2", after[1].Text, after[1].QuestionOrder)
	}
	if after[2].ID != c.ID || after[2].QuestionOrder != 3 {
		t.Errorf("position 3 = %s (order %d), want c at 3", after[2].Text, after[2].QuestionOrder)
	}

	// Order values remain a total order.
	seen := map[int]bool{}
	for _, q := range after {
		if seen[q.QuestionOrder] {
			t.Errorf("duplicate question_order %d after reorder", q.QuestionOrder)
		}
		seen[q.QuestionOrder] = true
	}
}

func TestReorderUnknownPrompt(t *testing.T) {
	db := setupTestDB(t)
	r := newPromptRouter(db, t)
	category := createCategory(t, db, model.CategoryGraduationWishes)
	a := addPrompt(t, r, category.ID, "a")

	w := doJSON(t, r, "POST", "/api/admin/questions/reorder", gin.H{
		"a_id": a.ID,
		"b_id": "no-such-id",
	})
	wantStatus(t, w, http.StatusInternalServerError)

	// The failed swap must not have moved a.
	var reloaded model.Question
	db.First(&reloaded, "id = ?", a.ID)
	if reloaded.QuestionOrder != a.QuestionOrder {
		t.Errorf("order changed to %d by failed reorder", reloaded.QuestionOrder)
	}
}

func TestReorderAcrossCategories(t *testing.T) {
	db := setupTestDB(t)
	r := newPromptRouter(db, t)

	wishes := createCategory(t, db, model.CategoryGraduationWishes)
	guessWho := createCategory(t, db, model.CategoryGuessWho)

	a := addPrompt(t, r, wishes.ID, "a")
	b := addPrompt(t, r, guessWho.ID, "b")

	w := doJSON(t, r, "POST", "/api/admin/questions/reorder", gin.H{
		"a_id": a.ID,
		"b_id": b.ID,
	})
	wantStatus(t, w, http.StatusBadRequest)

	// Neither prompt moved.
	var reloaded model.Question
	db.First(&reloaded, "id = ?", a.ID)
	if reloaded.QuestionOrder != a.QuestionOrder {
		t.Errorf("prompt a order changed to %d", reloaded.QuestionOrder)
	}
	db.First(&reloaded, "id = ?", b.ID)
	if reloaded.QuestionOrder != b.QuestionOrder {
		t.Errorf("prompt b order changed to %d", reloaded.QuestionOrder)
	}
}

func TestListQuestionsOrdered(t *testing.T) {
	db := setupTestDB(t)
	r := newPromptRouter(db, t)
	category := createCategory(t, db, model.CategoryGraduationWishes)

	addPrompt(t, r, category.ID, "one")
	addPrompt(t, r, category.ID, "two")

	w := doJSON(t, r, "GET", "/api/categories/"+category.ID+"/questions", nil)
	wantStatus(t, w, http.StatusOK)

	var questions []model.Question
	decodeBody(t, w, &questions)
	if len(questions) != 2 {
		t.Fatalf("%d questions, want 2", len(questions))
	}
	if questions[0].Text != "one" || questions[1].Text != "two" {
		t.Errorf("order = %q, %q; want one, two", questions[0].Text, questions[1].Text)
	}
}

func TestDeletePrompt(t *testing.T) {
	db := setupTestDB(t)
	r := newPromptRouter(db, t)
	category := createCategory(t, db, model.CategoryGraduationWishes)
	a := addPrompt(t, r, category.ID, "a")

	w := doJSON(t, r, "DELETE", "/api/admin/questions/"+a.ID, nil)
	wantStatus(t, w, http.StatusOK)

	w = doJSON(t, r, "DELETE", "/api/admin/questions/"+a.ID, nil)
	wantStatus(t, w, http.StatusNotFound)
}
