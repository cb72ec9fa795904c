package services

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// sampleForm has two divisions and one question of each type; the text
// question is required.
func sampleForm() FormInput {
	return FormInput{
		Name:        ptr("Committee 2026"),
		Description: ptr("Open recruitment"),
		Divisions: []DivisionInput{
			{Name: "Event", Quota: 5},
			{Name: "Media", Quota: 3},
		},
		Questions: []QuestionInput{
			{Question: "Why do you want to join?", Type: "text", Required: true},
			{Question: "Tell us about yourself", Type: "textarea"},
			{Question: "Shirt size", Type: "radio", Options: types.FlexList[string]{"S", "M", "L"}},
			{Question: "Skills", Type: "multiple_choice", Options: types.FlexList[string]{"Design", "Video", "Writing"}},
		},
	}
}

func createSampleForm(t *testing.T, db *gorm.DB, officer Actor) *models.RecruitmentForm {
	t.Helper()
	form, err := CreateForm(db, officer, sampleForm())
	require.NoError(t, err)
	return form
}

func TestCreateForm(t *testing.T) {
	db := newTestDB(t)
	_, officer := createMember(t, db, models.RoleOfficer)
	_, member := createMember(t, db, models.RoleMember)

	_, err := CreateForm(db, member, sampleForm())
	assertForbidden(t, err)

	form := createSampleForm(t, db, officer)
	assert.Equal(t, officer.ID, form.CreatorID)
	assert.Equal(t, models.FormActive, form.Status)
	require.Len(t, form.Divisions, 2)
	require.Len(t, form.Questions, 4)
	assert.Equal(t, "Event", form.Divisions[0].Name)
	assert.Equal(t, 1, form.Divisions[1].Order)
	assert.Equal(t, models.StringList{"S", "M", "L"}, form.Questions[2].Options)
	assert.Empty(t, form.Questions[0].Options)
}

func TestCreateFormOrdering(t *testing.T) {
	db := newTestDB(t)
	_, officer := createMember(t, db, models.RoleOfficer)

	in := sampleForm()
	in.Divisions = []DivisionInput{
		{Name: "Third", Order: ptr(5)},
		{Name: "First", Order: ptr(0)},
		{Name: "Second"}, // defaults to its index, 2
	}
	in.Questions[0].Order = ptr(10)

	form, err := CreateForm(db, officer, in)
	require.NoError(t, err)

	names := []string{}
	for _, d := range form.Divisions {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"First", "Second", "Third"}, names)
	assert.Equal(t, "Why do you want to join?", form.Questions[len(form.Questions)-1].Text)

	forms, err := ListForms(db)
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "First", forms[0].Divisions[0].Name)
}

func TestFormOrderingTies(t *testing.T) {
	db := newTestDB(t)
	_, officer := createMember(t, db, models.RoleOfficer)

	in := sampleForm()
	in.Divisions = []DivisionInput{
		{Name: "Alpha", Order: ptr(1)},
		{Name: "Bravo", Order: ptr(1)},
		{Name: "Charlie", Order: ptr(1)},
		{Name: "Zero", Order: ptr(0)},
	}
	for i := range in.Questions {
		in.Questions[i].Order = ptr(3)
	}
	created, err := CreateForm(db, officer, in)
	require.NoError(t, err)

	divisionNames := func(form models.RecruitmentForm) []string {
		names := []string{}
		for _, d := range form.Divisions {
			names = append(names, d.Name)
		}
		return names
	}
	questionIDs := func(form models.RecruitmentForm) []uint64 {
		ids := []uint64{}
		for _, q := range form.Questions {
			ids = append(ids, q.ID)
		}
		return ids
	}

	want := []string{"Zero", "Alpha", "Bravo", "Charlie"}
	assert.Equal(t, want, divisionNames(*created))
	wantIDs := questionIDs(*created)
	require.Len(t, wantIDs, 4)
	for i := 1; i < len(wantIDs); i++ {
		assert.Less(t, wantIDs[i-1], wantIDs[i])
	}

	for i := 0; i < 3; i++ {
		form, err := GetForm(db, created.ID)
		require.NoError(t, err)
		assert.Equal(t, want, divisionNames(*form))
		assert.Equal(t, wantIDs, questionIDs(*form))

		forms, err := ListForms(db)
		require.NoError(t, err)
		require.Len(t, forms, 1)
		assert.Equal(t, want, divisionNames(forms[0]))
		assert.Equal(t, wantIDs, questionIDs(forms[0]))
	}
}

func TestUpdateFormClearsWindow(t *testing.T) {
	db := newTestDB(t)
	_, officer := createMember(t, db, models.RoleOfficer)
	_, member := createMember(t, db, models.RoleMember)

	in := sampleForm()
	in.OpenAt = optionalDate(t, "2026-11-01")
	in.CloseAt = optionalDate(t, "2026-11-30")
	form, err := CreateForm(db, officer, in)
	require.NoError(t, err)

	withClock(t, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	_, err = RegisterForm(db, member, validRegistration(form, 0))
	assert.True(t, types.IsType(err, types.TypeFormClosed))

	// an absent key leaves the bound alone
	var keep FormInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Renamed"}`), &keep))
	updated, err := UpdateForm(db, officer, form.ID, keep)
	require.NoError(t, err)
	require.NotNil(t, updated.OpenAt)
	require.NotNil(t, updated.CloseAt)

	var reset FormInput
	require.NoError(t, json.Unmarshal([]byte(`{"open_at":null}`), &reset))
	updated, err = UpdateForm(db, officer, form.ID, reset)
	require.NoError(t, err)
	assert.Nil(t, updated.OpenAt)
	assert.NotNil(t, updated.CloseAt)

	reloaded, err := GetForm(db, form.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.OpenAt)

	_, err = RegisterForm(db, member, validRegistration(form, 0))
	require.NoError(t, err)
}

func TestCreateFormValidation(t *testing.T) {
	db := newTestDB(t)
	_, officer := createMember(t, db, models.RoleOfficer)

	t.Run("needs a division", func(t *testing.T) {
		in := sampleForm()
		in.Divisions = nil
		_, err := CreateForm(db, officer, in)
		assertCustomError(t, err, http.StatusUnprocessableEntity, "divisions")
	})

	t.Run("choice questions need options", func(t *testing.T) {
		in := sampleForm()
		in.Questions[2].Options = types.FlexList[string]{" ", ""}
		_, err := CreateForm(db, officer, in)
		assertCustomError(t, err, http.StatusUnprocessableEntity, "questions.2.options")
	})

	t.Run("window must not be inverted", func(t *testing.T) {
		in := sampleForm()
		in.OpenAt = optionalDate(t, "2026-09-10")
		in.CloseAt = optionalDate(t, "2026-09-01")
		_, err := CreateForm(db, officer, in)
		assertCustomError(t, err, http.StatusUnprocessableEntity, "close_at")
	})

	t.Run("order may not be negative", func(t *testing.T) {
		in := sampleForm()
		in.Divisions[0].Order = ptr(-7)
		in.Questions[0].Order = ptr(-1)
		_, err := CreateForm(db, officer, in)
		assertCustomError(t, err, http.StatusUnprocessableEntity, "divisions.0.order", "questions.0.order")
	})

	t.Run("options may not contain the answer separator", func(t *testing.T) {
		in := sampleForm()
		in.Questions[3].Options = types.FlexList[string]{"Design, Video", "Writing"}
		_, err := CreateForm(db, officer, in)
		assertCustomError(t, err, http.StatusUnprocessableEntity, "questions.3.options")

		// a comma without the following space stays unambiguous
		in.Questions[3].Options = types.FlexList[string]{"Design,Video", "Writing"}
		assert.Empty(t, checkFormShape(in, nil))
	})

	t.Run("needs a name", func(t *testing.T) {
		in := sampleForm()
		in.Name = ptr(" ")
		_, err := CreateForm(db, officer, in)
		assertCustomError(t, err, http.StatusUnprocessableEntity, "name")
	})

	assert.Zero(t, count(t, db, &models.RecruitmentForm{}, ""))
	assert.Zero(t, count(t, db, &models.Division{}, ""))
}

func TestUpdateForm(t *testing.T) {
	db := newTestDB(t)
	_, officer := createMember(t, db, models.RoleOfficer)
	_, member := createMember(t, db, models.RoleMember)
	form := createSampleForm(t, db, officer)

	updated, err := UpdateForm(db, officer, form.ID, FormInput{
		Status:    ptr("closed"),
		Divisions: []DivisionInput{{Name: "Only"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.FormClosed, updated.Status)
	assert.Equal(t, "Committee 2026", updated.Name)
	require.Len(t, updated.Divisions, 1)
	assert.Equal(t, "Only", updated.Divisions[0].Name)
	assert.Len(t, updated.Questions, 4)

	_, err = UpdateForm(db, officer, form.ID, FormInput{Status: ptr("active")})
	require.NoError(t, err)
	_, err = RegisterForm(db, member, RegisterInput{
		FormID:     types.FlexUint64(form.ID),
		DivisionID: types.FlexUint64(updated.Divisions[0].ID),
		Answers:    []AnswerInput{{QuestionID: types.FlexUint64(updated.Questions[0].ID), Answer: types.FlexList[string]{"yes"}}},
	})
	require.NoError(t, err)

	_, err = UpdateForm(db, officer, form.ID, FormInput{Questions: []QuestionInput{{Question: "New", Type: "text"}}})
	assertCustomError(t, err, http.StatusConflict)

	renamed, err := UpdateForm(db, officer, form.ID, FormInput{Name: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Name)

	_, err = UpdateForm(db, member, form.ID, FormInput{Name: ptr("x")})
	assertForbidden(t, err)

	_, err = UpdateForm(db, officer, 9999, FormInput{})
	assertCustomError(t, err, http.StatusNotFound)
}

func TestDeleteFormCascades(t *testing.T) {
	db := newTestDB(t)
	_, officer := createMember(t, db, models.RoleOfficer)
	_, member := createMember(t, db, models.RoleMember)
	form := createSampleForm(t, db, officer)
	kept := createSampleForm(t, db, officer)

	for _, f := range []*models.RecruitmentForm{form, kept} {
		_, err := RegisterForm(db, member, validRegistration(f, 0))
		require.NoError(t, err)
	}

	require.NoError(t, DeleteForm(db, officer, form.ID))

	assert.Zero(t, count(t, db, &models.RecruitmentForm{}, "id = ?", form.ID))
	assert.Zero(t, count(t, db, &models.Division{}, "form_id = ?", form.ID))
	assert.Zero(t, count(t, db, &models.Question{}, "form_id = ?", form.ID))
	assert.Zero(t, count(t, db, &models.Registration{}, "form_id = ?", form.ID))
	assert.EqualValues(t, 1, count(t, db, &models.Registration{}, "form_id = ?", kept.ID))
	assert.EqualValues(t, 1, count(t, db, &models.Answer{}, ""))

	_, err := GetForm(db, form.ID)
	assertCustomError(t, err, http.StatusNotFound)
}
