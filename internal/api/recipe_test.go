package api

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRecipeBody(userID string) map[string]interface{} {
	return map[string]interface{}{
		"name":         "Tomato Soup",
		"ingredients":  []string{"tomatoes", "basil"},
		"instructions": []string{"Simmer the tomatoes.", "Blend."},
		"image":        "https://images.example/soup.jpg",
		"userId":       userID,
	}
}

// createRecipe inserts a recipe through the API and returns its id
func (e *testEnv) createRecipe(t *testing.T, userID string, cookie *http.Cookie) string {
	t.Helper()

	w := performRequestWithCookie(e.router, "POST", "/recipes", createRecipeBody(userID), "", cookie)
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeBody(t, w)["data"].(map[string]interface{})["id"].(string)
}

func TestRecipeWritesRequireSession(t *testing.T) {
	env := setupTestEnv(t)
	user, token := env.createUserAndToken(t, "ada@example.com")

	// A bearer token alone is not a session
	w := performRequest(env.router, "POST", "/recipes", createRecipeBody(user.ID.String()), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Please log in first")

	w = performRequest(env.router, "PUT", "/recipes/some-id", map[string]interface{}{"name": "x"}, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAndListRecipes(t *testing.T) {
	env := setupTestEnv(t)
	user, _ := env.createUserAndToken(t, "ada@example.com")
	cookie := env.sessionCookie(t, user.ID)

	env.createRecipe(t, user.ID.String(), cookie)

	// Reads are open
	w := performRequest(env.router, "GET", "/recipes", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Recipes fetched successfully", body["message"])
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	recipe := data[0].(map[string]interface{})
	assert.Equal(t, "Tomato Soup", recipe["name"])
	assert.Equal(t, user.ID.String(), recipe["userId"])
}

func TestListRecipesEmpty(t *testing.T) {
	env := setupTestEnv(t)

	w := performRequest(env.router, "GET", "/recipes", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "No recipes found", body["message"])
	assert.Empty(t, body["data"].([]interface{}))
}

func TestListRecipesByUser(t *testing.T) {
	env := setupTestEnv(t)
	ada, _ := env.createUserAndToken(t, "ada@example.com")
	grace, _ := env.createUserAndToken(t, "grace@example.com")
	cookie := env.sessionCookie(t, ada.ID)

	env.createRecipe(t, ada.ID.String(), cookie)
	env.createRecipe(t, grace.ID.String(), cookie)

	w := performRequest(env.router, "GET", "/recipes/"+ada.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, ada.ID.String(), data[0].(map[string]interface{})["userId"])

	// A user with no recipes gets the empty 404
	w = performRequest(env.router, "GET", "/recipes/unknown-user", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No recipes found for this user", decodeBody(t, w)["message"])
}

func TestCreateRecipeValidation(t *testing.T) {
	env := setupTestEnv(t)
	user, _ := env.createUserAndToken(t, "ada@example.com")
	cookie := env.sessionCookie(t, user.ID)

	// Missing userId
	w := performRequestWithCookie(env.router, "POST", "/recipes", map[string]interface{}{
		"name":         "Tomato Soup",
		"ingredients":  []string{"tomatoes"},
		"instructions": []string{"Simmer."},
	}, "", cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRecipe(t *testing.T) {
	env := setupTestEnv(t)
	user, _ := env.createUserAndToken(t, "ada@example.com")
	cookie := env.sessionCookie(t, user.ID)

	recipeID := env.createRecipe(t, user.ID.String(), cookie)

	w := performRequestWithCookie(env.router, "PUT", "/recipes/"+recipeID, map[string]interface{}{
		"name": "Roasted Tomato Soup",
	}, "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Roasted Tomato Soup", data["name"])
}

func TestUpdateRecipeNotFound(t *testing.T) {
	env := setupTestEnv(t)
	user, _ := env.createUserAndToken(t, "ada@example.com")
	cookie := env.sessionCookie(t, user.ID)

	w := performRequestWithCookie(env.router, "PUT", "/recipes/6d3a9a3e-52f1-4f35-a2a9-000000000000",
		map[string]interface{}{"name": "Nope"}, "", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipe(t *testing.T) {
	env := setupTestEnv(t)
	user, _ := env.createUserAndToken(t, "ada@example.com")
	cookie := env.sessionCookie(t, user.ID)

	recipeID := env.createRecipe(t, user.ID.String(), cookie)

	w := performRequest(env.router, "DELETE", "/recipes/"+recipeID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(env.router, "DELETE", "/recipes/"+recipeID, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(env.router, "GET", "/recipes", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadRecipeImage(t *testing.T) {
	env := setupTestEnv(t)
	user, _ := env.createUserAndToken(t, "ada@example.com")
	cookie := env.sessionCookie(t, user.ID)
	env.images.uploadURL = "https://bucket.s3.amazonaws.com/recipe-media/abc"

	recipeID := env.createRecipe(t, user.ID.String(), cookie)

	w := performMultipartUpload(t, env, "/recipes/"+recipeID+"/image", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "https://bucket.s3.amazonaws.com/recipe-media/abc", data["image"])
}

func TestUploadRecipeImageStorageFailure(t *testing.T) {
	env := setupTestEnv(t)
	user, _ := env.createUserAndToken(t, "ada@example.com")
	cookie := env.sessionCookie(t, user.ID)
	env.images.uploadErr = errors.New("media storage is not configured")

	recipeID := env.createRecipe(t, user.ID.String(), cookie)

	w := performMultipartUpload(t, env, "/recipes/"+recipeID+"/image", cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func performMultipartUpload(t *testing.T, env *testEnv, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "soup.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}
