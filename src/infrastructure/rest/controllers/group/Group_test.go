package group

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dispatch-ledger-api/src/domain/common"
	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainGroup "dispatch-ledger-api/src/domain/group"
	"dispatch-ledger-api/src/infrastructure/helper"
	logger "dispatch-ledger-api/src/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// MockGroupUseCase implements IGroupUseCase for testing
type MockGroupUseCase struct {
	createGroupFn  func(string, string, []string) (*domainGroup.Group, error)
	addMemberFn    func(string, uint64, string) (*domainGroup.Group, error)
	removeMemberFn func(string, uint64, string) (*domainGroup.Group, error)
}

func (m *MockGroupUseCase) CreateGroup(creator, name string, members []string) (*domainGroup.Group, error) {
	if m.createGroupFn != nil {
		return m.createGroupFn(creator, name, members)
	}
	return nil, nil
}
func (m *MockGroupUseCase) AddMember(caller string, groupID uint64, member string) (*domainGroup.Group, error) {
	if m.addMemberFn != nil {
		return m.addMemberFn(caller, groupID, member)
	}
	return nil, nil
}
func (m *MockGroupUseCase) RemoveMember(caller string, groupID uint64, member string) (*domainGroup.Group, error) {
	if m.removeMemberFn != nil {
		return m.removeMemberFn(caller, groupID, member)
	}
	return nil, nil
}

func setupController(t *testing.T, mockUseCase *MockGroupUseCase) IGroupController {
	loggerInstance, err := logger.NewLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	commonService := common.NewCommonService(helper.NewValidator(loggerInstance))
	return NewGroupController(commonService, mockUseCase, loggerInstance)
}

func TestCreateGroup_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUseCase := &MockGroupUseCase{
		createGroupFn: func(creator, name string, members []string) (*domainGroup.Group, error) {
			if creator != "alice" {
				t.Errorf("creator = %q, want the authenticated caller", creator)
			}
			return &domainGroup.Group{ID: 4, Name: name, Members: members, Creator: creator, Active: true}, nil
		},
	}
	controller := setupController(t, mockUseCase)

	requestBody, _ := json.Marshal(CreateGroupRequest{Name: "team", Members: []string{"bob"}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest("POST", "/groups", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set("callerAddress", "alice")

	controller.CreateGroup(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var response GroupResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.ID != 4 || !response.Active {
		t.Errorf("response = %+v, want id 4 and active", response)
	}
}

func TestAddMember_ForwardsUseCaseError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUseCase := &MockGroupUseCase{
		addMemberFn: func(string, uint64, string) (*domainGroup.Group, error) {
			return nil, domainErrors.NewAppErrorWithType(domainErrors.NotAuthorized)
		},
	}
	controller := setupController(t, mockUseCase)

	requestBody, _ := json.Marshal(AddMemberRequest{Member: "carol"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest("POST", "/groups/4/members", bytes.NewBuffer(requestBody))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "4"}}
	c.Set("callerAddress", "bob")

	controller.AddMember(c)

	if len(c.Errors) == 0 {
		t.Fatal("expected the use case error to be attached to the context")
	}
	appErr, ok := c.Errors[0].Err.(*domainErrors.AppError)
	if !ok || appErr.Type != domainErrors.NotAuthorized {
		t.Errorf("expected NotAuthorized on the context, got %v", c.Errors[0].Err)
	}
}

func TestRemoveMember_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)

	removeCalled := false
	mockUseCase := &MockGroupUseCase{
		removeMemberFn: func(caller string, groupID uint64, member string) (*domainGroup.Group, error) {
			removeCalled = true
			if groupID != 4 || member != "bob" {
				t.Errorf("RemoveMember(%d, %q), want (4, bob)", groupID, member)
			}
			return &domainGroup.Group{ID: 4, Creator: caller, Members: []string{"carol"}, Active: true}, nil
		},
	}
	controller := setupController(t, mockUseCase)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest("DELETE", "/groups/4/members/bob", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "4"}, {Key: "member", Value: "bob"}}
	c.Set("callerAddress", "alice")

	controller.RemoveMember(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !removeCalled {
		t.Error("expected the use case to run")
	}
}
