package handlers

import (
	"net/http"
	"testing"

	"github.com/pushp314/bloodbridge-backend/internal/database"
	"github.com/pushp314/bloodbridge-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() map[string]interface{} {
	return map[string]interface{}{
		"name":      "Ravi <b>Kumar</b>",
		"location":  "  Pune ",
		"bloodType": "O-",
		"quantity":  2,
		"contact":   "9876543210",
		"reason":    "Surgery",
	}
}

func TestCreateBloodRequest(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, models.RoleDonor, true)

	w := serve("POST", "/requests", "/requests", CreateBloodRequest, &user, validRequest())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	req := decode(t, w)["request"].(map[string]interface{})
	assert.Equal(t, user.ID, req["uid"])
	assert.Equal(t, "pune", req["location"])
	assert.Equal(t, "Ravi &lt;b&gt;Kumar&lt;/b&gt;", req["name"])
	assert.Equal(t, string(models.RequestActive), req["status"])
}

func TestCreateBloodRequest_Validation(t *testing.T) {
	setupTestDB(t)
	user := createUser(t, models.RoleDonor, true)

	bad := validRequest()
	bad["bloodType"] = "C+"
	w := serve("POST", "/requests", "/requests", CreateBloodRequest, &user, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad = validRequest()
	bad["quantity"] = 0
	w = serve("POST", "/requests", "/requests", CreateBloodRequest, &user, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestLifecycle(t *testing.T) {
	setupTestDB(t)
	owner := createUser(t, models.RoleDonor, true)
	stranger := createUser(t, models.RoleDonor, true)
	admin := createUser(t, models.RoleAdmin, true)

	w := serve("POST", "/requests", "/requests", CreateBloodRequest, &owner, validRequest())
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["request"].(map[string]interface{})["id"].(string)

	second := validRequest()
	second["bloodType"] = "A+"
	w = serve("POST", "/requests", "/requests", CreateBloodRequest, &owner, second)
	require.Equal(t, http.StatusCreated, w.Code)
	secondID := decode(t, w)["request"].(map[string]interface{})["id"].(string)

	w = serve("GET", "/requests/active", "/requests/active", ListActiveRequests, nil, nil)
	assert.Len(t, decode(t, w)["requests"], 2)

	w = serve("GET", "/requests/active", "/requests/active?bloodType=O-", ListActiveRequests, nil, nil)
	assert.Len(t, decode(t, w)["requests"], 1)

	// strangers cannot fulfil someone else's request
	w = serve("PATCH", "/requests/:id/fulfill", "/requests/"+id+"/fulfill", FulfillRequest, &stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve("PATCH", "/requests/:id/fulfill", "/requests/"+id+"/fulfill", FulfillRequest, &owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(models.RequestFulfilled), decode(t, w)["request"].(map[string]interface{})["status"])

	w = serve("GET", "/requests/active", "/requests/active", ListActiveRequests, nil, nil)
	assert.Len(t, decode(t, w)["requests"], 1)

	w = serve("GET", "/requests/my", "/requests/my", ListMyRequests, &owner, nil)
	assert.Len(t, decode(t, w)["requests"], 2)

	// admins may remove any request
	w = serve("DELETE", "/requests/:id", "/requests/"+secondID, DeleteRequest, &admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve("DELETE", "/requests/:id", "/requests/missing", DeleteRequest, &admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var remaining int64
	database.DB.Model(&models.BloodRequest{}).Count(&remaining)
	assert.Equal(t, int64(1), remaining)
}
