package services

import (
	"net/http"
	"testing"

	"github.com/localnerve/orgportal/internal/models"
	"github.com/localnerve/orgportal/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePosition(t *testing.T) {
	db := newTestDB(t)
	_, officer := createMember(t, db, models.RoleOfficer)
	_, member := createMember(t, db, models.RoleMember)
	program := createProgram(t, db, "Orientation")

	in := PositionInput{
		ProgramID: ptr(types.FlexUint64(program.ID)),
		Name:      ptr("  Coordinator "),
		Quota:     ptr(2),
	}

	_, err := CreatePosition(db, member, in)
	assertForbidden(t, err)

	position, err := CreatePosition(db, officer, in)
	require.NoError(t, err)
	assert.Equal(t, "Coordinator", position.Name)
	assert.Equal(t, models.PositionOpen, position.Status)
	require.NotNil(t, position.Program)
	assert.Equal(t, program.ID, position.Program.ID)

	in.ProgramID = ptr(types.FlexUint64(9999))
	_, err = CreatePosition(db, officer, in)
	assertCustomError(t, err, http.StatusUnprocessableEntity, "program_id")

	_, err = CreatePosition(db, officer, PositionInput{})
	assertCustomError(t, err, http.StatusUnprocessableEntity, "program_id", "name")
}

func TestUpdateAndDeletePosition(t *testing.T) {
	db := newTestDB(t)
	_, officer := createMember(t, db, models.RoleOfficer)
	_, member := createMember(t, db, models.RoleMember)
	program := createProgram(t, db, "Orientation")
	position := createPosition(t, db, program.ID, 2, models.PositionOpen)

	updated, err := UpdatePosition(db, officer, position.ID, PositionInput{Status: ptr("closed"), Quota: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, models.PositionClosed, updated.Status)
	assert.Equal(t, 4, updated.Quota)
	assert.Equal(t, "Staff", updated.Name)

	require.NoError(t, db.Model(updated).Update("status", models.PositionOpen).Error)
	_, err = Apply(db, member, ApplyInput{PositionID: types.FlexUint64(position.ID), Motivation: "I want to help"})
	require.NoError(t, err)

	require.NoError(t, DeletePosition(db, officer, position.ID))
	assert.Zero(t, count(t, db, &models.Application{}, "position_id = ?", position.ID))

	err = DeletePosition(db, officer, position.ID)
	assertCustomError(t, err, http.StatusNotFound)
}

func TestListPositions(t *testing.T) {
	db := newTestDB(t)
	first := createProgram(t, db, "First")
	second := createProgram(t, db, "Second")
	for i := 0; i < 18; i++ {
		createPosition(t, db, first.ID, 1, models.PositionOpen)
	}
	createPosition(t, db, second.ID, 1, models.PositionOpen)
	createPosition(t, db, second.ID, 1, models.PositionClosed)

	t.Run("unpaged", func(t *testing.T) {
		positions, page, err := ListPositions(db, PositionFilter{})
		require.NoError(t, err)
		assert.Nil(t, page)
		assert.Len(t, positions, 20)
		require.NotNil(t, positions[0].Program)
		assert.Less(t, positions[0].ID, positions[1].ID)
	})

	t.Run("by program", func(t *testing.T) {
		positions, _, err := ListPositions(db, PositionFilter{ProgramID: second.ID})
		require.NoError(t, err)
		assert.Len(t, positions, 2)
		for _, p := range positions {
			assert.Equal(t, second.ID, p.ProgramID)
		}
	})

	t.Run("by status", func(t *testing.T) {
		positions, _, err := ListPositions(db, PositionFilter{Status: "closed"})
		require.NoError(t, err)
		assert.Len(t, positions, 1)
	})

	t.Run("default page size", func(t *testing.T) {
		positions, page, err := ListPositions(db, PositionFilter{Page: 2})
		require.NoError(t, err)
		require.NotNil(t, page)
		assert.Equal(t, Pagination{Page: 2, PerPage: 15, Total: 20}, *page)
		assert.Len(t, positions, 5)
	})

	t.Run("page size is capped", func(t *testing.T) {
		_, page, err := ListPositions(db, PositionFilter{Page: 1, PerPage: 500})
		require.NoError(t, err)
		assert.Equal(t, 100, page.PerPage)
	})
}

func TestApply(t *testing.T) {
	db := newTestDB(t)
	_, member := createMember(t, db, models.RoleMember)
	program := createProgram(t, db, "Orientation")
	open := createPosition(t, db, program.ID, 1, models.PositionOpen)
	closed := createPosition(t, db, program.ID, 1, models.PositionClosed)

	application, err := Apply(db, member, ApplyInput{PositionID: types.FlexUint64(open.ID), Motivation: " eager "})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, application.Status)
	assert.Equal(t, "eager", application.Motivation)
	assert.Equal(t, member.ID, application.MemberID)

	t.Run("duplicate is a conflict", func(t *testing.T) {
		_, err := Apply(db, member, ApplyInput{PositionID: types.FlexUint64(open.ID), Motivation: "again"})
		ce := assertCustomError(t, err, http.StatusConflict)
		assert.Equal(t, types.TypeConflict, ce.Type)
		assert.EqualValues(t, 1, count(t, db, &models.Application{}, "member_id = ?", member.ID))
	})

	t.Run("unique index backs the check", func(t *testing.T) {
		dup := models.Application{MemberID: member.ID, PositionID: open.ID, Status: models.ApplicationPending}
		err := db.Create(&dup).Error
		require.Error(t, err)
	})

	t.Run("closed position", func(t *testing.T) {
		_, err := Apply(db, member, ApplyInput{PositionID: types.FlexUint64(closed.ID), Motivation: "x"})
		assertCustomError(t, err, http.StatusUnprocessableEntity, "position_id")
	})

	t.Run("unknown position", func(t *testing.T) {
		_, err := Apply(db, member, ApplyInput{PositionID: 424242, Motivation: "x"})
		assertCustomError(t, err, http.StatusNotFound)
	})
}

func TestSelectApplicant(t *testing.T) {
	db := newTestDB(t)
	_, officer := createMember(t, db, models.RoleOfficer)
	_, member := createMember(t, db, models.RoleMember)
	program := createProgram(t, db, "Orientation")
	position := createPosition(t, db, program.ID, 1, models.PositionOpen)

	application, err := Apply(db, member, ApplyInput{PositionID: types.FlexUint64(position.ID), Motivation: "m"})
	require.NoError(t, err)

	_, err = SelectApplicant(db, member, application.ID, SelectInput{Status: "accepted"})
	assertForbidden(t, err)

	_, err = SelectApplicant(db, officer, application.ID, SelectInput{Status: "pending"})
	assertCustomError(t, err, http.StatusUnprocessableEntity, "status")

	decided, err := SelectApplicant(db, officer, application.ID, SelectInput{Status: "accepted"})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationAccepted, decided.Status)
	require.NotNil(t, decided.Member)
	require.NotNil(t, decided.Position)
	assert.NotNil(t, decided.Position.Program)

	_, err = SelectApplicant(db, officer, application.ID, SelectInput{Status: "rejected"})
	assertCustomError(t, err, http.StatusConflict)

	_, err = SelectApplicant(db, officer, 9999, SelectInput{Status: "accepted"})
	assertCustomError(t, err, http.StatusNotFound)
}

func TestSelectApplicantIgnoresQuota(t *testing.T) {
	db := newTestDB(t)
	_, officer := createMember(t, db, models.RoleOfficer)
	program := createProgram(t, db, "Orientation")
	position := createPosition(t, db, program.ID, 3, models.PositionOpen)

	for i := 0; i < 5; i++ {
		_, applicant := createMember(t, db, models.RoleMember)
		application, err := Apply(db, applicant, ApplyInput{PositionID: types.FlexUint64(position.ID), Motivation: "m"})
		require.NoError(t, err)
		_, err = SelectApplicant(db, officer, application.ID, SelectInput{Status: "accepted"})
		require.NoError(t, err)
	}
	assert.EqualValues(t, 5, count(t, db, &models.Application{}, "position_id = ? AND status = ?", position.ID, models.ApplicationAccepted))
}

func TestListApplicantsByPosition(t *testing.T) {
	db := newTestDB(t)
	_, officer := createMember(t, db, models.RoleOfficer)
	alice, aliceActor := createMember(t, db, models.RoleMember)
	_, bobActor := createMember(t, db, models.RoleMember)
	program := createProgram(t, db, "Orientation")
	position := createPosition(t, db, program.ID, 1, models.PositionOpen)

	for _, a := range []Actor{aliceActor, bobActor} {
		_, err := Apply(db, a, ApplyInput{PositionID: types.FlexUint64(position.ID), Motivation: "m"})
		require.NoError(t, err)
	}

	applicants, err := ListApplicantsByPosition(db, officer, position.ID)
	require.NoError(t, err)
	require.Len(t, applicants, 2)
	require.NotNil(t, applicants[0].Member)
	assert.Equal(t, alice.NIM, applicants[0].Member.NIM)

	_, err = ListApplicantsByPosition(db, aliceActor, position.ID)
	assertForbidden(t, err)

	_, err = ListApplicantsByPosition(db, officer, 9999)
	assertCustomError(t, err, http.StatusNotFound)
}

func TestMyApplicationsAndCommittee(t *testing.T) {
	db := newTestDB(t)
	_, officer := createMember(t, db, models.RoleOfficer)
	_, member := createMember(t, db, models.RoleMember)
	_, other := createMember(t, db, models.RoleMember)
	program := createProgram(t, db, "Orientation")
	accepted := createPosition(t, db, program.ID, 1, models.PositionOpen)
	rejected := createPosition(t, db, program.ID, 1, models.PositionOpen)
	pending := createPosition(t, db, program.ID, 1, models.PositionOpen)

	decide := map[uint64]string{accepted.ID: "accepted", rejected.ID: "rejected"}
	for _, p := range []models.Position{accepted, rejected, pending} {
		application, err := Apply(db, member, ApplyInput{PositionID: types.FlexUint64(p.ID), Motivation: "m"})
		require.NoError(t, err)
		if status, ok := decide[p.ID]; ok {
			_, err = SelectApplicant(db, officer, application.ID, SelectInput{Status: status})
			require.NoError(t, err)
		}
	}
	_, err := Apply(db, other, ApplyInput{PositionID: types.FlexUint64(accepted.ID), Motivation: "m"})
	require.NoError(t, err)

	mine, err := MyApplications(db, member)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
	for _, a := range mine {
		assert.Equal(t, member.ID, a.MemberID)
		require.NotNil(t, a.Position)
		assert.NotNil(t, a.Position.Program)
	}

	committee, err := MyCommittee(db, member)
	require.NoError(t, err)
	require.Len(t, committee, 1)
	assert.Equal(t, accepted.ID, committee[0].PositionID)
	assert.Equal(t, models.ApplicationAccepted, committee[0].Status)

	none, err := MyCommittee(db, other)
	require.NoError(t, err)
	assert.Empty(t, none)
}
