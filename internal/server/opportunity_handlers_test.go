package server

import (
	"net/http"
	"testing"

	"hustlehub/internal/models"
	"hustlehub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func opportunityBody(title string) map[string]interface{} {
	return map[string]interface{}{
		"title":           title,
		"description":     "Design and ship a small marketing site.",
		"required_skills": []string{"html", "css"},
		"bounty_amount":   "400",
		"deadline":        "2026-12-31T18:00:00Z",
	}
}

func TestCreateAndGetOpportunity(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice")
	auth := env.bearer(alice)

	status, body := env.do(http.MethodPost, "/opportunities", opportunityBody("Marketing site"), auth)
	require.Equal(t, http.StatusCreated, status, string(body))
	opp := object(t, body)
	assert.Equal(t, "open", opp["status"])
	assert.Equal(t, float64(alice.ID), opp["creator_id"])
	assert.Equal(t, float64(400), opp["bounty_amount"])
	assert.Equal(t, []interface{}{"html", "css"}, opp["required_skills"])
	assert.NotNil(t, opp["deadline"])

	id := uint(opp["id"].(float64))
	status, body = env.do(http.MethodGet, "/opportunities/"+itoa(id), nil, auth)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Marketing site", object(t, body)["title"])

	status, body = env.do(http.MethodGet, "/opportunities/9999", nil, auth)
	assertError(t, status, body, http.StatusNotFound, models.CodeNotFound)
}

func TestCreateOpportunityBodyRules(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice")
	auth := env.bearer(alice)

	b := opportunityBody("Marketing site")
	b["bounty_amount"] = "a lot"
	status, body := env.do(http.MethodPost, "/opportunities", b, auth)
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.Nil(t, object(t, body)["bounty_amount"])

	b = opportunityBody("Nope")
	status, body = env.do(http.MethodPost, "/opportunities", b, auth)
	assertError(t, status, body, http.StatusUnprocessableEntity, models.CodeValidation)

	b = opportunityBody("Marketing site")
	b["deadline"] = "whenever"
	status, body = env.do(http.MethodPost, "/opportunities", b, auth)
	assertError(t, status, body, http.StatusUnprocessableEntity, models.CodeValidation)
}

func TestListOpportunities(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice")
	auth := env.bearer(alice)

	first := testutil.CreateOpportunity(t, env.db, alice.ID, "First task")
	second := testutil.CreateOpportunity(t, env.db, alice.ID, "Second task")
	closed := testutil.CreateOpportunity(t, env.db, alice.ID, "Closed task")
	require.NoError(t, env.db.Model(closed).Update("status", models.OpportunityClosed).Error)

	status, body := env.do(http.MethodGet, "/opportunities?status=open", nil, auth)
	require.Equal(t, http.StatusOK, status, string(body))
	items := array(t, body)
	require.Len(t, items, 2)
	assert.Equal(t, float64(second.ID), items[0]["id"])
	assert.Equal(t, float64(first.ID), items[1]["id"])

	status, body = env.do(http.MethodGet, "/opportunities?skip=1&limit=1", nil, auth)
	require.Equal(t, http.StatusOK, status)
	items = array(t, body)
	require.Len(t, items, 1)
	assert.Equal(t, float64(second.ID), items[0]["id"])

	status, body = env.do(http.MethodGet, "/opportunities?skip=-3", nil, auth)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, array(t, body), 3)
}

func TestUpdateAndDeleteOpportunity(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	opp := testutil.CreateOpportunity(t, env.db, alice.ID, "Original title")
	path := "/opportunities/" + itoa(opp.ID)

	status, body := env.do(http.MethodPut, path, opportunityBody("Hijacked title"), env.bearer(bob))
	assertError(t, status, body, http.StatusForbidden, models.CodeForbidden)

	var stored models.Opportunity
	require.NoError(t, env.db.First(&stored, opp.ID).Error)
	assert.Equal(t, "Original title", stored.Title)

	update := opportunityBody("Updated title")
	delete(update, "bounty_amount")
	status, body = env.do(http.MethodPut, path, update, env.bearer(alice))
	require.Equal(t, http.StatusOK, status, string(body))
	m := object(t, body)
	assert.Equal(t, "Updated title", m["title"])
	assert.Nil(t, m["bounty_amount"])

	status, body = env.do(http.MethodPut, "/opportunities/9999", update, env.bearer(alice))
	assertError(t, status, body, http.StatusNotFound, models.CodeNotFound)

	status, body = env.do(http.MethodPost, path+"/apply", map[string]string{"message": "Count me in please"}, env.bearer(bob))
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = env.do(http.MethodDelete, path, nil, env.bearer(bob))
	assertError(t, status, body, http.StatusForbidden, models.CodeForbidden)

	var remaining int64
	require.NoError(t, env.db.Model(&models.Opportunity{}).Where("id = ?", opp.ID).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	status, _ = env.do(http.MethodDelete, path, nil, env.bearer(alice))
	assert.Equal(t, http.StatusNoContent, status)

	status, body = env.do(http.MethodGet, path, nil, env.bearer(alice))
	assertError(t, status, body, http.StatusNotFound, models.CodeNotFound)

	status, body = env.do(http.MethodGet, "/network/applications/my", nil, env.bearer(bob))
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, array(t, body))
}

func TestApplicationWorkflow(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	opp := testutil.CreateOpportunity(t, env.db, alice.ID, "Logo design")
	oppPath := "/opportunities/" + itoa(opp.ID)

	status, body := env.do(http.MethodPost, oppPath+"/apply", map[string]string{"message": "short"}, env.bearer(bob))
	assertError(t, status, body, http.StatusUnprocessableEntity, models.CodeValidation)

	status, body = env.do(http.MethodPost, "/opportunities/9999/apply", map[string]string{"message": "I can do this quickly"}, env.bearer(bob))
	assertError(t, status, body, http.StatusNotFound, models.CodeNotFound)

	status, body = env.do(http.MethodPost, oppPath+"/apply", map[string]string{"message": "I can do this quickly"}, env.bearer(bob))
	require.Equal(t, http.StatusCreated, status, string(body))
	app := object(t, body)
	assert.Equal(t, "pending", app["status"])
	appID := uint(app["id"].(float64))

	status, body = env.do(http.MethodPost, oppPath+"/apply", map[string]string{"message": "Applying once more"}, env.bearer(bob))
	m := assertError(t, status, body, http.StatusBadRequest, models.CodeConflict)
	assert.Equal(t, "Already applied to this opportunity", m["error"])

	status, body = env.do(http.MethodGet, oppPath+"/applications", nil, env.bearer(bob))
	assertError(t, status, body, http.StatusForbidden, models.CodeForbidden)

	status, body = env.do(http.MethodGet, oppPath+"/applications", nil, env.bearer(alice))
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, array(t, body), 1)

	status, body = env.do(http.MethodGet, "/opportunities/my-applications", nil, env.bearer(alice))
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, array(t, body), 1)

	statusPath := "/opportunities/applications/" + itoa(appID) + "/status"

	status, body = env.do(http.MethodPut, statusPath, map[string]string{"status": "accepted"}, env.bearer(bob))
	assertError(t, status, body, http.StatusForbidden, models.CodeForbidden)

	for _, bad := range []string{"maybe", "pending"} {
		status, body = env.do(http.MethodPut, statusPath, map[string]string{"status": bad}, env.bearer(alice))
		assertError(t, status, body, http.StatusBadRequest, models.CodeInvalidStatus)
	}

	status, body = env.do(http.MethodPut, statusPath, "{not json", env.bearer(alice))
	assertError(t, status, body, http.StatusUnprocessableEntity, models.CodeValidation)

	var stored models.Application
	require.NoError(t, env.db.First(&stored, appID).Error)
	assert.Equal(t, models.ApplicationPending, stored.Status)

	status, body = env.do(http.MethodPut, "/opportunities/applications/9999/status", map[string]string{"status": "accepted"}, env.bearer(alice))
	assertError(t, status, body, http.StatusNotFound, models.CodeNotFound)

	status, body = env.do(http.MethodPut, statusPath, map[string]string{"status": "accepted"}, env.bearer(alice))
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, "accepted", object(t, body)["status"])

	status, body = env.do(http.MethodPut, statusPath+"?new_status=rejected", nil, env.bearer(alice))
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, "rejected", object(t, body)["status"])

	status, body = env.do(http.MethodGet, "/network/applications/my", nil, env.bearer(bob))
	require.Equal(t, http.StatusOK, status)
	mine := array(t, body)
	require.Len(t, mine, 1)
	assert.Equal(t, "rejected", mine[0]["status"])
}

func TestModeEnforcementFlag(t *testing.T) {
	cfg := testutil.NewTestConfig()
	cfg.FeatureFlags = "enforce_modes=on"
	env := newTestEnvWith(t, cfg, nil)

	hustler := testutil.CreateUser(t, env.db, "hustler")
	builder := testutil.CreateUser(t, env.db, "builder")
	require.NoError(t, env.db.Model(builder).Update("mode", models.ModeBuilder).Error)

	status, body := env.do(http.MethodPost, "/opportunities", opportunityBody("Marketing site"), env.bearer(hustler))
	assertError(t, status, body, http.StatusForbidden, models.CodeForbidden)

	status, body = env.do(http.MethodPost, "/opportunities", opportunityBody("Marketing site"), env.bearer(builder))
	require.Equal(t, http.StatusCreated, status, string(body))
	path := "/opportunities/" + itoa(uint(object(t, body)["id"].(float64))) + "/apply"

	status, body = env.do(http.MethodPost, path, map[string]string{"message": "Builders cannot apply"}, env.bearer(builder))
	assertError(t, status, body, http.StatusForbidden, models.CodeForbidden)

	status, body = env.do(http.MethodPost, path, map[string]string{"message": "Hustlers can apply"}, env.bearer(hustler))
	assert.Equal(t, http.StatusCreated, status, string(body))
}
