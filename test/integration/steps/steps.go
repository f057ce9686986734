package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finly/backend/internal/application/usecase/category"
	"github.com/finly/backend/internal/integration/persistence"
	"github.com/finly/backend/internal/integration/persistence/model"
)

func (t *testContext) theAPIServerIsRunning() error {
	return t.startServer()
}

// User setup

func (t *testContext) aUserExistsWithEmailAndPassword(email, password string) error {
	status, _, err := t.call(http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":    email,
		"name":     "Test User",
		"password": password,
	}, "")
	if err != nil {
		return err
	}
	if status != http.StatusCreated && status != http.StatusConflict {
		return fmt.Errorf("failed to register %s: status %d", email, status)
	}
	return nil
}

func (t *testContext) iAmLoggedInAs(email string) error {
	if err := t.aUserExistsWithEmailAndPassword(email, testDefaultPass); err != nil {
		return err
	}

	status, body, err := t.call(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": testDefaultPass,
	}, "")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("failed to log in as %s: status %d (body: %v)", email, status, body)
	}

	t.accessToken, _ = getFieldValue(body, "accessToken").(string)
	t.refreshToken, _ = getFieldValue(body, "refreshToken").(string)
	if id, ok := getFieldValue(body, "user.id").(string); ok {
		t.currentUserID, _ = uuid.Parse(id)
	}
	return nil
}

// Category setup

func (t *testContext) theDefaultCategoriesAreSeeded() error {
	uc := category.NewSeedDefaultCategoriesUseCase(persistence.NewCategoryRepository(t.db.DbConn))
	_, err := uc.Execute(context.Background())
	return err
}

func (t *testContext) aCategoryExistsWithNameAndType(name, categoryType string) error {
	status, body, err := t.call(http.MethodPost, "/api/v1/categories", map[string]any{
		"name": name,
		"type": categoryType,
	}, t.accessToken)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("failed to create category %s: status %d (body: %v)", name, status, body)
	}
	id, _ := getFieldValue(body, "id").(string)
	t.currentCategoryID, err = uuid.Parse(id)
	return err
}

func (t *testContext) iUseTheCategory(name string) error {
	id, err := t.categoryIDByName(name)
	if err != nil {
		return err
	}
	t.currentCategoryID = id
	return nil
}

// categoryIDByName resolves a category visible to the current user.
func (t *testContext) categoryIDByName(name string) (uuid.UUID, error) {
	var found model.CategoryModel
	err := t.db.DbConn.
		Where("LOWER(name) = LOWER(?) AND (owner_id = ? OR is_default = ?)", name, t.currentUserID, true).
		Order("is_default ASC").
		First(&found).Error
	if err != nil {
		return uuid.Nil, fmt.Errorf("category '%s' not found: %w", name, err)
	}
	return found.ID, nil
}

// Transaction setup

func (t *testContext) theFollowingTransactionsExist(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return errors.New("transaction table needs a header and at least one row")
	}

	header := make([]string, len(table.Rows[0].Cells))
	for i, cell := range table.Rows[0].Cells {
		header[i] = cell.Value
	}

	for _, row := range table.Rows[1:] {
		payload := map[string]any{}
		for i, cell := range row.Cells {
			value := t.timeMock.Expand(cell.Value)
			switch header[i] {
			case "category":
				id, err := t.categoryIDByName(value)
				if err != nil {
					return err
				}
				payload["categoryId"] = id.String()
			case "tags":
				tags := []string{}
				for _, tag := range strings.Split(value, ",") {
					if tag = strings.TrimSpace(tag); tag != "" {
						tags = append(tags, tag)
					}
				}
				payload["tags"] = tags
			default:
				payload[header[i]] = value
			}
		}

		status, body, err := t.call(http.MethodPost, "/api/v1/transactions", payload, t.accessToken)
		if err != nil {
			return err
		}
		if status != http.StatusCreated {
			return fmt.Errorf("failed to create transaction %v: status %d (body: %v)", payload, status, body)
		}
		t.captureIDs(body)
	}
	return nil
}

// OCR collaborator

func (t *testContext) theOCRServiceRespondsWith(method, path string, status int, body *godog.DocString) error {
	content := strings.TrimSpace(t.timeMock.Expand(body.Content))
	if !json.Valid([]byte(content)) {
		return fmt.Errorf("OCR response body is not valid JSON: %s", content)
	}
	t.ocr.SetResponse(-1, method, path, status, content)
	return nil
}

func (t *testContext) theOCRServiceRespondsWithStatus(method, path string, status int) error {
	t.ocr.SetResponse(-1, method, path, status, map[string]any{})
	return nil
}

// Headers

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = "" // Clear access token to simulate unauthenticated request
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

// Requests

func (t *testContext) iSendARequestTo(method, path string) error {
	path = t.replacePlaceholders(path)
	return t.executeRequest(method, path, nil, "application/json")
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	path = t.replacePlaceholders(path)

	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, path, payload, "application/json")
}

func (t *testContext) iUploadTheFileTo(filename string, size int, path string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("receipt", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(bytes.Repeat([]byte{0x42}, size)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return t.executeRequest(http.MethodPost, t.replacePlaceholders(path), buf.Bytes(), w.FormDataContentType())
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{refresh_token}}", t.refreshToken)
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	content = strings.ReplaceAll(content, "{{user_id}}", t.currentUserID.String())
	content = strings.ReplaceAll(content, "{{category_id}}", t.currentCategoryID.String())
	content = strings.ReplaceAll(content, "{{transaction_id}}", t.lastTransactionID.String())

	// Handle transaction_ids array placeholder
	ids := make([]string, len(t.transactionIDs))
	for i, id := range t.transactionIDs {
		ids[i] = fmt.Sprintf(`"%s"`, id.String())
	}
	content = strings.ReplaceAll(content, "{{transaction_ids}}", "["+strings.Join(ids, ", ")+"]")

	return t.timeMock.Expand(content)
}

// call sends a JSON request outside the scenario's response tracking.
func (t *testContext) call(method, path string, payload any, token string) (int, any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequest(method, t.uri+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func (t *testContext) executeRequest(method, path string, payload []byte, contentType string) error {
	var req *http.Request
	var err error

	url := t.uri + path

	if payload != nil {
		req, err = http.NewRequest(method, url, bytes.NewReader(payload))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", contentType)

	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}

	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{
		status:  resp.StatusCode,
		headers: resp.Header,
		raw:     bodyBytes,
	}

	var responseBody any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody
	t.captureIDs(responseBody)

	return nil
}

// captureIDs remembers the IDs of created categories and transactions.
func (t *testContext) captureIDs(body any) {
	object, ok := body.(map[string]any)
	if !ok {
		return
	}
	if token, ok := object["refreshToken"].(string); ok && token != "" {
		t.refreshToken = token
	}

	idStr, ok := object["id"].(string)
	if !ok {
		return
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return
	}

	switch {
	case object["usageCount"] != nil:
		t.currentCategoryID = id
	case object["paymentMethod"] != nil:
		t.lastTransactionID = id
		t.transactionIDs = append(t.transactionIDs, id)
	}
}

// Response assertions

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(string); ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}

	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	value := getFieldValue(t.response.body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, t.response.body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != t.replacePlaceholders(expectedValue) {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if getFieldValue(t.response.body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBeNull(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	value, found := lookupField(t.response.body, field)
	if !found {
		return fmt.Errorf("field '%s' not found in response: %v", field, t.response.body)
	}
	if value != nil {
		return fmt.Errorf("field '%s' expected null, got %v", field, value)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, count int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	items, ok := getFieldValue(t.response.body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not a list: %v", field, t.response.body)
	}
	if len(items) != count {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, count, len(items))
	}
	return nil
}

func (t *testContext) theResponseHeaderShouldContain(header, expected string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	actual := t.response.headers.Get(header)
	if !strings.Contains(actual, expected) {
		return fmt.Errorf("header '%s' expected to contain '%s', got '%s'", header, expected, actual)
	}
	return nil
}

func (t *testContext) theResponseBodyShouldStartWith(prefix string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if !bytes.HasPrefix(t.response.raw, []byte(prefix)) {
		return fmt.Errorf("response body does not start with '%s'", prefix)
	}
	return nil
}

// Collaborator assertions

func (t *testContext) theOCRServiceShouldHaveReceived(count int, method, path string) error {
	if got := len(t.ocr.GetRequests(method, path)); got != count {
		return fmt.Errorf("expected %d OCR requests to %s %s, got %d", count, method, path, got)
	}
	return nil
}

func (t *testContext) theOCRRequestShouldCarryTheFile(index int, method, path, filename, field string) error {
	requests := t.ocr.GetRequests(method, path)
	if index < 0 || index >= len(requests) {
		return fmt.Errorf("no OCR request %d to %s %s", index, method, path)
	}
	if got := requests[index].Files[field]; got != filename {
		return fmt.Errorf("expected file '%s' in field '%s', got '%s'", filename, field, got)
	}
	return nil
}

func (t *testContext) theOCRRequestShouldHaveTheField(index int, method, path, field, expected string) error {
	body := t.ocr.GetRequestBody(method, path, index)
	if body == nil {
		return fmt.Errorf("no OCR request %d to %s %s", index, method, path)
	}
	if got := fmt.Sprintf("%v", body[field]); got != expected {
		return fmt.Errorf("OCR request field '%s' expected '%s', got '%s'", field, expected, got)
	}
	return nil
}

func (t *testContext) theUploadDirectoryShouldContainFiles(count int) error {
	entries, err := os.ReadDir(t.uploadDir)
	if err != nil {
		return err
	}
	if len(entries) != count {
		return fmt.Errorf("expected %d files in the upload directory, got %d", count, len(entries))
	}
	return nil
}

func (t *testContext) theUserShouldHaveActiveRefreshTokens(email string, count int) error {
	var user model.UserModel
	if err := t.db.DbConn.Where("email = ?", email).First(&user).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}
	tokens, err := t.redis.Client.SMembers(context.Background(), "refresh:user:"+user.ID.String()).Result()
	if err != nil {
		return err
	}
	active := 0
	for _, token := range tokens {
		exists, err := t.redis.Client.Exists(context.Background(), "refresh:"+token).Result()
		if err != nil {
			return err
		}
		active += int(exists)
	}
	if active != count {
		return fmt.Errorf("expected %d active refresh tokens for %s, got %d", count, email, active)
	}
	return nil
}

// Database assertions

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.countRows(quantity, table, nil)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}
	return t.countRows(quantity, table, criteria)
}

func (t *testContext) countRows(quantity int, table string, criteria map[string]any) error {
	entity, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	count := entitySlicePtr.Elem().Len()
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	value, _ := lookupField(object, dotSeparatedField)
	return value
}

// lookupField walks a dot separated path; numeric segments index lists.
func lookupField(object any, dotSeparatedField string) (any, bool) {
	field := object
	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		switch v := field.(type) {
		case []any:
			i, err := strconv.Atoi(currentField)
			if err != nil || i < 0 || i >= len(v) {
				return nil, false
			}
			field = v[i]
		case map[string]any:
			next, ok := v[currentField]
			if !ok {
				return nil, false
			}
			field = next
		default:
			return nil, false
		}
	}
	return field, true
}
