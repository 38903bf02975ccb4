package group

import (
	"errors"
	"sync"
	"testing"

	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainGroup "dispatch-ledger-api/src/domain/group"
	logger "dispatch-ledger-api/src/infrastructure/logger"
)

type mockGroupRepository struct {
	createFn       func(*domainGroup.Group) (*domainGroup.Group, error)
	getByIDFn      func(uint64) (*domainGroup.Group, error)
	isMemberFn     func(uint64, string) (bool, error)
	addMemberFn    func(uint64, string) error
	removeMemberFn func(uint64, string) error
}

func (m *mockGroupRepository) Create(groupDomain *domainGroup.Group) (*domainGroup.Group, error) {
	if m.createFn != nil {
		return m.createFn(groupDomain)
	}
	return groupDomain, nil
}
func (m *mockGroupRepository) GetByID(id uint64) (*domainGroup.Group, error) {
	return m.getByIDFn(id)
}
func (m *mockGroupRepository) GetMembers(groupID uint64) ([]string, error) {
	return nil, nil
}
func (m *mockGroupRepository) IsMember(groupID uint64, member string) (bool, error) {
	if m.isMemberFn != nil {
		return m.isMemberFn(groupID, member)
	}
	return false, nil
}
func (m *mockGroupRepository) AddMember(groupID uint64, member string) error {
	if m.addMemberFn != nil {
		return m.addMemberFn(groupID, member)
	}
	return nil
}
func (m *mockGroupRepository) RemoveMember(groupID uint64, member string) error {
	if m.removeMemberFn != nil {
		return m.removeMemberFn(groupID, member)
	}
	return nil
}
func (m *mockGroupRepository) GetUserGroupIDs(creator string) ([]uint64, error) {
	return nil, nil
}

type mockCounterRepository struct {
	currentFn     func(string) (uint64, error)
	currentCalled bool
}

func (m *mockCounterRepository) Current(scope string) (uint64, error) {
	m.currentCalled = true
	if m.currentFn != nil {
		return m.currentFn(scope)
	}
	return 1, nil
}

func setupLogger(t *testing.T) *logger.Logger {
	loggerInstance, err := logger.NewLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return loggerInstance
}

func assertErrType(t *testing.T, err error, wantType string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of type %s, got nil", wantType)
	}
	var appErr *domainErrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Type != wantType {
		t.Errorf("expected error type %s, got %s", wantType, appErr.Type)
	}
}

func TestCreateGroup_DeduplicatesMembers(t *testing.T) {
	groupRepo := &mockGroupRepository{}
	counterRepo := &mockCounterRepository{
		currentFn: func(scope string) (uint64, error) { return 4, nil },
	}
	uc := NewGroupUseCase(groupRepo, counterRepo, &sync.Mutex{}, setupLogger(t))

	created, err := uc.CreateGroup("alice", "team", []string{"bob", "", "carol", "bob"})
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}

	want := []string{"bob", "carol"}
	if len(created.Members) != len(want) {
		t.Fatalf("expected members %v, got %v", want, created.Members)
	}
	for i, member := range want {
		if created.Members[i] != member {
			t.Errorf("member[%d] = %q, want %q", i, created.Members[i], member)
		}
	}
	if created.ID != 4 {
		t.Errorf("expected group id 4, got %d", created.ID)
	}
	if !created.Active {
		t.Error("a new group must be active")
	}
	if created.Creator != "alice" {
		t.Errorf("creator = %q, want alice", created.Creator)
	}
}

func TestCreateGroup_Validation(t *testing.T) {
	tooMany := make([]string, domainGroup.MaxMembers+1)
	for i := range tooMany {
		tooMany[i] = "member"
	}

	tests := []struct {
		name      string
		groupName string
		members   []string
	}{
		{name: "empty name", groupName: "", members: []string{"bob"}},
		{name: "too many members", groupName: "team", members: tooMany},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counterRepo := &mockCounterRepository{}
			uc := NewGroupUseCase(&mockGroupRepository{}, counterRepo, &sync.Mutex{}, setupLogger(t))

			_, err := uc.CreateGroup("alice", tt.groupName, tt.members)
			assertErrType(t, err, domainErrors.ValidationError)

			if counterRepo.currentCalled {
				t.Error("no group id may be consumed for a rejected creation")
			}
		})
	}
}

func TestAddMember(t *testing.T) {
	baseGroup := func() *domainGroup.Group {
		return &domainGroup.Group{ID: 4, Name: "team", Creator: "alice", Members: []string{"bob"}, Active: true}
	}

	tests := []struct {
		name        string
		caller      string
		member      string
		isMemberFn  func(uint64, string) (bool, error)
		group       func() *domainGroup.Group
		wantErrType string
	}{
		{
			name:   "creator adds a new member",
			caller: "alice",
			member: "carol",
			group:  baseGroup,
		},
		{
			name:        "non-creator is rejected",
			caller:      "bob",
			member:      "carol",
			group:       baseGroup,
			wantErrType: domainErrors.NotAuthorized,
		},
		{
			name:        "null identity is rejected",
			caller:      "alice",
			member:      "",
			group:       baseGroup,
			wantErrType: domainErrors.ValidationError,
		},
		{
			name:   "duplicate member is rejected",
			caller: "alice",
			member: "bob",
			isMemberFn: func(uint64, string) (bool, error) {
				return true, nil
			},
			group:       baseGroup,
			wantErrType: domainErrors.ValidationError,
		},
		{
			name:   "full group is rejected",
			caller: "alice",
			member: "carol",
			group: func() *domainGroup.Group {
				members := make([]string, domainGroup.MaxMembers)
				for i := range members {
					members[i] = "member"
				}
				return &domainGroup.Group{ID: 4, Creator: "alice", Members: members, Active: true}
			},
			wantErrType: domainErrors.ValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addMemberCalled := false
			groupRepo := &mockGroupRepository{
				getByIDFn: func(id uint64) (*domainGroup.Group, error) {
					return tt.group(), nil
				},
				isMemberFn: tt.isMemberFn,
				addMemberFn: func(uint64, string) error {
					addMemberCalled = true
					return nil
				},
			}
			uc := NewGroupUseCase(groupRepo, &mockCounterRepository{}, &sync.Mutex{}, setupLogger(t))

			_, err := uc.AddMember(tt.caller, 4, tt.member)
			if tt.wantErrType != "" {
				assertErrType(t, err, tt.wantErrType)
				if addMemberCalled {
					t.Error("repository AddMember must not run for a rejected edit")
				}
				return
			}
			if err != nil {
				t.Fatalf("AddMember() error = %v", err)
			}
			if !addMemberCalled {
				t.Error("expected repository AddMember to run")
			}
		})
	}
}

func TestRemoveMember(t *testing.T) {
	baseGroup := &domainGroup.Group{ID: 4, Name: "team", Creator: "alice", Members: []string{"bob", "carol"}, Active: true}

	tests := []struct {
		name        string
		caller      string
		member      string
		isMember    bool
		wantErrType string
	}{
		{
			name:     "creator removes a member",
			caller:   "alice",
			member:   "bob",
			isMember: true,
		},
		{
			name:        "non-creator is rejected",
			caller:      "bob",
			member:      "carol",
			isMember:    true,
			wantErrType: domainErrors.NotAuthorized,
		},
		{
			name:        "absent member is rejected",
			caller:      "alice",
			member:      "mallory",
			isMember:    false,
			wantErrType: domainErrors.ValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			removeCalled := false
			groupRepo := &mockGroupRepository{
				getByIDFn: func(id uint64) (*domainGroup.Group, error) {
					return baseGroup, nil
				},
				isMemberFn: func(uint64, string) (bool, error) {
					return tt.isMember, nil
				},
				removeMemberFn: func(uint64, string) error {
					removeCalled = true
					return nil
				},
			}
			uc := NewGroupUseCase(groupRepo, &mockCounterRepository{}, &sync.Mutex{}, setupLogger(t))

			_, err := uc.RemoveMember(tt.caller, 4, tt.member)
			if tt.wantErrType != "" {
				assertErrType(t, err, tt.wantErrType)
				if removeCalled {
					t.Error("repository RemoveMember must not run for a rejected edit")
				}
				return
			}
			if err != nil {
				t.Fatalf("RemoveMember() error = %v", err)
			}
			if !removeCalled {
				t.Error("expected repository RemoveMember to run")
			}
		})
	}
}

func TestCreateGroup_SequentialIDs(t *testing.T) {
	next := uint64(4)
	counterRepo := &mockCounterRepository{
		currentFn: func(scope string) (uint64, error) {
			issued := next
			next++
			return issued, nil
		},
	}
	uc := NewGroupUseCase(&mockGroupRepository{}, counterRepo, &sync.Mutex{}, setupLogger(t))

	var prev uint64
	for i := 0; i < 3; i++ {
		created, err := uc.CreateGroup("alice", "ops", []string{"bob"})
		if err != nil {
			t.Fatalf("CreateGroup() #%d error = %v", i, err)
		}
		if created.ID <= prev {
			t.Fatalf("id %d is not strictly greater than previous id %d", created.ID, prev)
		}
		prev = created.ID
	}
	if prev != 6 {
		t.Errorf("last issued id = %d, want 6", prev)
	}
}
