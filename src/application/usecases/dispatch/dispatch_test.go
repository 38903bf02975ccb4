package dispatch

import (
	"errors"
	"strings"
	"sync"
	"testing"

	domainBatch "dispatch-ledger-api/src/domain/batch"
	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainGroup "dispatch-ledger-api/src/domain/group"
	domainNotification "dispatch-ledger-api/src/domain/notification"
	domainTemplate "dispatch-ledger-api/src/domain/template"
	logger "dispatch-ledger-api/src/infrastructure/logger"
)

type mockBatchRepository struct {
	commitFn     func(*domainBatch.Batch, uint64, []domainNotification.Record) (*domainBatch.Batch, error)
	commitCalled bool
}

func (m *mockBatchRepository) Commit(batchDomain *domainBatch.Batch, feePaid uint64, records []domainNotification.Record) (*domainBatch.Batch, error) {
	m.commitCalled = true
	if m.commitFn != nil {
		return m.commitFn(batchDomain, feePaid, records)
	}
	return batchDomain, nil
}
func (m *mockBatchRepository) GetByID(id uint64) (*domainBatch.Batch, error) {
	return nil, nil
}
func (m *mockBatchRepository) GetDeliveryStatuses(batchID uint64) (map[string]bool, error) {
	return nil, nil
}
func (m *mockBatchRepository) GetUserBatchIDs(sender string, offset, limit int) ([]uint64, error) {
	return nil, nil
}
func (m *mockBatchRepository) Count() (uint64, error) {
	return 0, nil
}

type mockGroupRepository struct {
	getByIDFn  func(uint64) (*domainGroup.Group, error)
	isMemberFn func(uint64, string) (bool, error)
}

func (m *mockGroupRepository) Create(groupDomain *domainGroup.Group) (*domainGroup.Group, error) {
	return nil, nil
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
	return nil
}
func (m *mockGroupRepository) RemoveMember(groupID uint64, member string) error {
	return nil
}
func (m *mockGroupRepository) GetUserGroupIDs(creator string) ([]uint64, error) {
	return nil, nil
}

type mockTemplateRepository struct {
	getByIDFn func(uint64) (*domainTemplate.Template, error)
}

func (m *mockTemplateRepository) Create(templateDomain *domainTemplate.Template) (*domainTemplate.Template, error) {
	return nil, nil
}
func (m *mockTemplateRepository) GetByID(id uint64) (*domainTemplate.Template, error) {
	return m.getByIDFn(id)
}
func (m *mockTemplateRepository) GetUserTemplateIDs(creator string) ([]uint64, error) {
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

func newDispatchUseCaseForTest(
	t *testing.T,
	batchRepo *mockBatchRepository,
	groupRepo *mockGroupRepository,
	templateRepo *mockTemplateRepository,
	counterRepo *mockCounterRepository,
	fee uint64,
) IDispatchUseCase {
	if batchRepo == nil {
		batchRepo = &mockBatchRepository{}
	}
	if counterRepo == nil {
		counterRepo = &mockCounterRepository{}
	}
	return NewDispatchUseCase(batchRepo, groupRepo, templateRepo, counterRepo, &sync.Mutex{}, fee, setupLogger(t))
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

func TestDispatchDirect_FiltersSenderAndNullKeepsDuplicates(t *testing.T) {
	batchRepo := &mockBatchRepository{}
	counterRepo := &mockCounterRepository{
		currentFn: func(scope string) (uint64, error) { return 7, nil },
	}
	uc := newDispatchUseCaseForTest(t, batchRepo, nil, nil, counterRepo, 10)

	committed, err := uc.DispatchDirect(&domainBatch.DispatchRequest{
		Sender:      "alice",
		Recipients:  []string{"bob", "", "alice", "carol", "bob"},
		Content:     "hello",
		MessageType: "text",
		Paid:        10,
	})
	if err != nil {
		t.Fatalf("DispatchDirect() error = %v", err)
	}

	want := []string{"bob", "carol", "bob"}
	if len(committed.Recipients) != len(want) {
		t.Fatalf("expected %d recipients, got %d (%v)", len(want), len(committed.Recipients), committed.Recipients)
	}
	for i, recipient := range want {
		if committed.Recipients[i] != recipient {
			t.Errorf("recipient[%d] = %q, want %q", i, committed.Recipients[i], recipient)
		}
	}
	if committed.ID != 7 {
		t.Errorf("expected batch id 7, got %d", committed.ID)
	}
	if !committed.Completed {
		t.Error("expected committed batch to be marked completed")
	}
}

func TestDispatchDirect_Validation(t *testing.T) {
	tooMany := make([]string, domainBatch.MaxRecipients+1)
	for i := range tooMany {
		tooMany[i] = "recipient"
	}

	tests := []struct {
		name        string
		recipients  []string
		content     string
		paid        uint64
		wantErrType string
	}{
		{
			name:        "empty recipient list",
			recipients:  []string{},
			content:     "hello",
			paid:        10,
			wantErrType: domainErrors.ValidationError,
		},
		{
			name:        "too many recipients",
			recipients:  tooMany,
			content:     "hello",
			paid:        10,
			wantErrType: domainErrors.ValidationError,
		},
		{
			name:        "empty content",
			recipients:  []string{"bob"},
			content:     "",
			paid:        10,
			wantErrType: domainErrors.ValidationError,
		},
		{
			name:        "content too large",
			recipients:  []string{"bob"},
			content:     strings.Repeat("x", domainBatch.MaxContentBytes+1),
			paid:        10,
			wantErrType: domainErrors.ValidationError,
		},
		{
			name:        "fee one unit short",
			recipients:  []string{"bob"},
			content:     "hello",
			paid:        9,
			wantErrType: domainErrors.InsufficientFunds,
		},
		{
			name:        "all recipients filtered away",
			recipients:  []string{"alice", "", ""},
			content:     "hello",
			paid:        10,
			wantErrType: domainErrors.ValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batchRepo := &mockBatchRepository{}
			counterRepo := &mockCounterRepository{}
			uc := newDispatchUseCaseForTest(t, batchRepo, nil, nil, counterRepo, 10)

			_, err := uc.DispatchDirect(&domainBatch.DispatchRequest{
				Sender:      "alice",
				Recipients:  tt.recipients,
				Content:     tt.content,
				MessageType: "text",
				Paid:        tt.paid,
			})
			assertErrType(t, err, tt.wantErrType)

			if batchRepo.commitCalled {
				t.Error("commit must not run for a rejected dispatch")
			}
			if counterRepo.currentCalled {
				t.Error("no batch id may be consumed for a rejected dispatch")
			}
		})
	}
}

func TestDispatchDirect_ExactFeeAccepted(t *testing.T) {
	uc := newDispatchUseCaseForTest(t, nil, nil, nil, nil, 10)

	_, err := uc.DispatchDirect(&domainBatch.DispatchRequest{
		Sender:     "alice",
		Recipients: []string{"bob"},
		Content:    "hello",
		Paid:       10,
	})
	if err != nil {
		t.Fatalf("exact fee must be accepted, got %v", err)
	}
}

func TestDispatchDirect_BuildsNotificationRecords(t *testing.T) {
	var gotRecords []domainNotification.Record
	batchRepo := &mockBatchRepository{
		commitFn: func(b *domainBatch.Batch, feePaid uint64, records []domainNotification.Record) (*domainBatch.Batch, error) {
			gotRecords = records
			return b, nil
		},
	}
	uc := newDispatchUseCaseForTest(t, batchRepo, nil, nil, nil, 10)

	_, err := uc.DispatchDirect(&domainBatch.DispatchRequest{
		Sender:     "alice",
		Recipients: []string{"bob", "carol"},
		Content:    "hello",
		Paid:       10,
	})
	if err != nil {
		t.Fatalf("DispatchDirect() error = %v", err)
	}

	// One BatchDispatched record plus one RecipientAdded per recipient.
	if len(gotRecords) != 3 {
		t.Fatalf("expected 3 notification records, got %d", len(gotRecords))
	}
	if gotRecords[0].Kind != domainNotification.KindBatchDispatched {
		t.Errorf("first record kind = %q, want %q", gotRecords[0].Kind, domainNotification.KindBatchDispatched)
	}
	if !strings.Contains(gotRecords[0].Payload, `"sender":"alice"`) {
		t.Errorf("batch payload missing sender: %s", gotRecords[0].Payload)
	}
	for _, record := range gotRecords[1:] {
		if record.Kind != domainNotification.KindRecipientAdded {
			t.Errorf("record kind = %q, want %q", record.Kind, domainNotification.KindRecipientAdded)
		}
	}
	if !strings.Contains(gotRecords[1].Payload, `"recipient":"bob"`) {
		t.Errorf("recipient payload missing recipient: %s", gotRecords[1].Payload)
	}
}

func TestDispatchToGroup(t *testing.T) {
	activeGroup := &domainGroup.Group{
		ID:      3,
		Name:    "team",
		Creator: "alice",
		Members: []string{"bob", "carol"},
		Active:  true,
	}

	tests := []struct {
		name           string
		sender         string
		paid           uint64
		content        string
		getByIDFn      func(uint64) (*domainGroup.Group, error)
		isMemberFn     func(uint64, string) (bool, error)
		wantErrType    string
		wantRecipients []string
	}{
		{
			name:    "creator dispatches without membership check",
			sender:  "alice",
			paid:    10,
			content: "hello",
			getByIDFn: func(id uint64) (*domainGroup.Group, error) {
				return activeGroup, nil
			},
			isMemberFn: func(uint64, string) (bool, error) {
				return false, errors.New("membership must not be checked for the creator")
			},
			wantRecipients: []string{"bob", "carol"},
		},
		{
			name:    "member dispatches and is excluded from recipients",
			sender:  "bob",
			paid:    10,
			content: "hello",
			getByIDFn: func(id uint64) (*domainGroup.Group, error) {
				return activeGroup, nil
			},
			isMemberFn: func(uint64, string) (bool, error) {
				return true, nil
			},
			wantRecipients: []string{"carol"},
		},
		{
			name:    "outsider is rejected",
			sender:  "mallory",
			paid:    10,
			content: "hello",
			getByIDFn: func(id uint64) (*domainGroup.Group, error) {
				return activeGroup, nil
			},
			isMemberFn: func(uint64, string) (bool, error) {
				return false, nil
			},
			wantErrType: domainErrors.NotAuthorized,
		},
		{
			name:    "inactive group",
			sender:  "alice",
			paid:    10,
			content: "hello",
			getByIDFn: func(id uint64) (*domainGroup.Group, error) {
				return &domainGroup.Group{ID: 3, Creator: "alice", Active: false}, nil
			},
			wantErrType: domainErrors.InvalidState,
		},
		{
			name:    "fee checked after authorization",
			sender:  "alice",
			paid:    9,
			content: "hello",
			getByIDFn: func(id uint64) (*domainGroup.Group, error) {
				return activeGroup, nil
			},
			wantErrType: domainErrors.InsufficientFunds,
		},
		{
			name:    "sole member dispatching to itself",
			sender:  "alice",
			paid:    10,
			content: "hello",
			getByIDFn: func(id uint64) (*domainGroup.Group, error) {
				return &domainGroup.Group{ID: 3, Creator: "alice", Members: []string{"alice"}, Active: true}, nil
			},
			wantErrType: domainErrors.InvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batchRepo := &mockBatchRepository{}
			groupRepo := &mockGroupRepository{getByIDFn: tt.getByIDFn, isMemberFn: tt.isMemberFn}
			uc := newDispatchUseCaseForTest(t, batchRepo, groupRepo, nil, nil, 10)

			committed, err := uc.DispatchToGroup(&domainBatch.GroupDispatchRequest{
				Sender:  tt.sender,
				GroupID: 3,
				Content: tt.content,
				Paid:    tt.paid,
			})

			if tt.wantErrType != "" {
				assertErrType(t, err, tt.wantErrType)
				if batchRepo.commitCalled {
					t.Error("commit must not run for a rejected dispatch")
				}
				return
			}
			if err != nil {
				t.Fatalf("DispatchToGroup() error = %v", err)
			}
			if len(committed.Recipients) != len(tt.wantRecipients) {
				t.Fatalf("expected recipients %v, got %v", tt.wantRecipients, committed.Recipients)
			}
			for i, recipient := range tt.wantRecipients {
				if committed.Recipients[i] != recipient {
					t.Errorf("recipient[%d] = %q, want %q", i, committed.Recipients[i], recipient)
				}
			}
		})
	}
}

func TestDispatchWithTemplate(t *testing.T) {
	publicTemplate := &domainTemplate.Template{ID: 5, Name: "welcome", Content: "template body", Creator: "alice", Public: true}
	privateTemplate := &domainTemplate.Template{ID: 5, Name: "secret", Content: "template body", Creator: "alice", Public: false}

	tests := []struct {
		name        string
		sender      string
		paid        uint64
		template    *domainTemplate.Template
		wantErrType string
	}{
		{
			name:     "public template usable by anyone",
			sender:   "bob",
			paid:     10,
			template: publicTemplate,
		},
		{
			name:     "private template usable by its creator",
			sender:   "alice",
			paid:     10,
			template: privateTemplate,
		},
		{
			name:        "private template rejected for others",
			sender:      "bob",
			paid:        10,
			template:    privateTemplate,
			wantErrType: domainErrors.NotAuthorized,
		},
		{
			// Readability is decided before the fee is looked at.
			name:        "access rejection wins over missing fee",
			sender:      "bob",
			paid:        0,
			template:    privateTemplate,
			wantErrType: domainErrors.NotAuthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batchRepo := &mockBatchRepository{}
			templateRepo := &mockTemplateRepository{
				getByIDFn: func(id uint64) (*domainTemplate.Template, error) { return tt.template, nil },
			}
			uc := newDispatchUseCaseForTest(t, batchRepo, nil, templateRepo, nil, 10)

			committed, err := uc.DispatchWithTemplate(&domainBatch.TemplateDispatchRequest{
				Sender:     tt.sender,
				TemplateID: 5,
				Recipients: []string{"carol"},
				Paid:       tt.paid,
			})

			if tt.wantErrType != "" {
				assertErrType(t, err, tt.wantErrType)
				return
			}
			if err != nil {
				t.Fatalf("DispatchWithTemplate() error = %v", err)
			}
			if committed.Content != "template body" {
				t.Errorf("batch content = %q, want the template body", committed.Content)
			}
		})
	}
}

func TestDispatch_CommitFailurePropagates(t *testing.T) {
	batchRepo := &mockBatchRepository{
		commitFn: func(*domainBatch.Batch, uint64, []domainNotification.Record) (*domainBatch.Batch, error) {
			return nil, errors.New("tx failed")
		},
	}
	uc := newDispatchUseCaseForTest(t, batchRepo, nil, nil, nil, 10)

	_, err := uc.DispatchDirect(&domainBatch.DispatchRequest{
		Sender:     "alice",
		Recipients: []string{"bob"},
		Content:    "hello",
		Paid:       10,
	})
	if err == nil {
		t.Fatal("expected commit failure to surface")
	}
}
