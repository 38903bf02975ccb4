package dispatch

import (
	"fmt"
	"sync"
	"time"

	domainBatch "dispatch-ledger-api/src/domain/batch"
	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainNotification "dispatch-ledger-api/src/domain/notification"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	"dispatch-ledger-api/src/infrastructure/metrics"
	batchRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/batch"
	counterRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/counter"
	groupRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/group"
	templateRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/template"

	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

const (
	entryDirect   = "direct"
	entryGroup    = "group"
	entryTemplate = "template"
)

// IDispatchUseCase defines the three batch dispatch entry points.
type IDispatchUseCase interface {
	DispatchDirect(request *domainBatch.DispatchRequest) (*domainBatch.Batch, error)
	DispatchToGroup(request *domainBatch.GroupDispatchRequest) (*domainBatch.Batch, error)
	DispatchWithTemplate(request *domainBatch.TemplateDispatchRequest) (*domainBatch.Batch, error)
}

// DispatchUseCase is the batch engine. Every entry point runs under the
// register lock for its whole validation-to-commit span: either all effects of
// a dispatch land (id advanced, batch and slots written, fee credited, index
// and notifications appended) or none do.
type DispatchUseCase struct {
	batchRepository    batchRepo.BatchRepositoryInterface
	groupRepository    groupRepo.GroupRepositoryInterface
	templateRepository templateRepo.TemplateRepositoryInterface
	counterRepository  counterRepo.CounterRepositoryInterface
	registerLock       *sync.Mutex
	dispatchFee        uint64
	Logger             *logger.Logger
}

func NewDispatchUseCase(
	batchRepository batchRepo.BatchRepositoryInterface,
	groupRepository groupRepo.GroupRepositoryInterface,
	templateRepository templateRepo.TemplateRepositoryInterface,
	counterRepository counterRepo.CounterRepositoryInterface,
	registerLock *sync.Mutex,
	dispatchFee uint64,
	loggerInstance *logger.Logger,
) IDispatchUseCase {
	return &DispatchUseCase{
		batchRepository:    batchRepository,
		groupRepository:    groupRepository,
		templateRepository: templateRepository,
		counterRepository:  counterRepository,
		registerLock:       registerLock,
		dispatchFee:        dispatchFee,
		Logger:             loggerInstance,
	}
}

func (u *DispatchUseCase) DispatchDirect(request *domainBatch.DispatchRequest) (*domainBatch.Batch, error) {
	start := time.Now()
	u.registerLock.Lock()
	defer u.registerLock.Unlock()

	committed, err := u.dispatchDirectLocked(request, start)
	observe(entryDirect, committed, err)
	return committed, err
}

func (u *DispatchUseCase) dispatchDirectLocked(request *domainBatch.DispatchRequest, start time.Time) (*domainBatch.Batch, error) {
	if err := checkRecipientBounds(request.Recipients); err != nil {
		return nil, err
	}
	if err := checkContentBounds(request.Content); err != nil {
		return nil, err
	}
	if err := u.checkFee(request.Paid); err != nil {
		return nil, err
	}

	recipients := filterRecipients(request.Sender, request.Recipients)
	if len(recipients) == 0 {
		u.Logger.Warn("Dispatch rejected: no recipients left after filtering", zap.String("sender", request.Sender))
		return nil, domainErrors.NewAppError(
			fmt.Errorf("no valid recipients remain after filtering"),
			domainErrors.ValidationError)
	}

	return u.commit(request.Sender, recipients, request.Content, request.MessageType, request.Paid, start, true)
}

func (u *DispatchUseCase) DispatchToGroup(request *domainBatch.GroupDispatchRequest) (*domainBatch.Batch, error) {
	start := time.Now()
	u.registerLock.Lock()
	defer u.registerLock.Unlock()

	committed, err := u.dispatchToGroupLocked(request, start)
	observe(entryGroup, committed, err)
	return committed, err
}

func (u *DispatchUseCase) dispatchToGroupLocked(request *domainBatch.GroupDispatchRequest, start time.Time) (*domainBatch.Batch, error) {
	group, err := u.groupRepository.GetByID(request.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.Active {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("group %d is not active", request.GroupID),
			domainErrors.InvalidState)
	}

	if group.Creator != request.Sender {
		isMember, err := u.groupRepository.IsMember(request.GroupID, request.Sender)
		if err != nil {
			return nil, err
		}
		if !isMember {
			u.Logger.Warn("Group dispatch rejected: caller is not creator or member",
				zap.Uint64("groupID", request.GroupID),
				zap.String("sender", request.Sender))
			return nil, domainErrors.NewAppError(
				fmt.Errorf("caller is neither the creator nor a member of group %d", request.GroupID),
				domainErrors.NotAuthorized)
		}
	}

	if err := u.checkFee(request.Paid); err != nil {
		return nil, err
	}
	if err := checkContentBounds(request.Content); err != nil {
		return nil, err
	}

	// Group membership excludes null identities by construction, so the only
	// filtering left is dropping the caller.
	recipients := make([]string, 0, len(group.Members))
	for _, member := range group.Members {
		if member == request.Sender {
			continue
		}
		recipients = append(recipients, member)
	}
	if len(recipients) == 0 {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("group %d has no recipients besides the caller", request.GroupID),
			domainErrors.InvalidState)
	}

	return u.commit(request.Sender, recipients, request.Content, request.MessageType, request.Paid, start, false)
}

func (u *DispatchUseCase) DispatchWithTemplate(request *domainBatch.TemplateDispatchRequest) (*domainBatch.Batch, error) {
	start := time.Now()
	u.registerLock.Lock()
	defer u.registerLock.Unlock()

	committed, err := u.dispatchWithTemplateLocked(request, start)
	observe(entryTemplate, committed, err)
	return committed, err
}

func (u *DispatchUseCase) dispatchWithTemplateLocked(request *domainBatch.TemplateDispatchRequest, start time.Time) (*domainBatch.Batch, error) {
	template, err := u.templateRepository.GetByID(request.TemplateID)
	if err != nil {
		return nil, err
	}
	// Template access is checked before the fee.
	if !template.ReadableBy(request.Sender) {
		u.Logger.Warn("Template dispatch rejected: template is private",
			zap.Uint64("templateID", request.TemplateID),
			zap.String("sender", request.Sender))
		return nil, domainErrors.NewAppError(
			fmt.Errorf("template %d is private", request.TemplateID),
			domainErrors.NotAuthorized)
	}

	if err := u.checkFee(request.Paid); err != nil {
		return nil, err
	}
	if err := checkRecipientBounds(request.Recipients); err != nil {
		return nil, err
	}

	recipients := filterRecipients(request.Sender, request.Recipients)
	if len(recipients) == 0 {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("no valid recipients remain after filtering"),
			domainErrors.ValidationError)
	}

	// Content comes verbatim from the template.
	return u.commit(request.Sender, recipients, template.Content, request.MessageType, request.Paid, start, true)
}

// commit assigns the next batch id, measures the resource usage consumed so
// far and hands the fully built batch to the repository for the atomic write.
func (u *DispatchUseCase) commit(sender string, recipients []string, content, messageType string, paid uint64, start time.Time, recipientEvents bool) (*domainBatch.Batch, error) {
	id, err := u.counterRepository.Current(counterRepo.ScopeBatch)
	if err != nil {
		return nil, err
	}

	batch := &domainBatch.Batch{
		ID:          id,
		Sender:      sender,
		Recipients:  recipients,
		Content:     content,
		Timestamp:   uint64(time.Now().Unix()),
		MessageType: messageType,
		Completed:   true,
	}
	batch.ResourceUsed = uint64(time.Since(start).Microseconds())

	records := buildNotifications(batch, recipientEvents)

	committed, err := u.batchRepository.Commit(batch, paid, records)
	if err != nil {
		return nil, err
	}

	metrics.AddNotifications(len(records))
	u.Logger.Info("Batch dispatched",
		zap.Uint64("id", committed.ID),
		zap.String("sender", committed.Sender),
		zap.Int("recipients", len(committed.Recipients)),
		zap.Uint64("resourceUsed", committed.ResourceUsed))
	return committed, nil
}

func (u *DispatchUseCase) checkFee(paid uint64) error {
	if paid < u.dispatchFee {
		return domainErrors.NewAppError(
			fmt.Errorf("paid %d is below the dispatch fee of %d", paid, u.dispatchFee),
			domainErrors.InsufficientFunds)
	}
	return nil
}

func checkRecipientBounds(recipients []string) error {
	if len(recipients) == 0 {
		return domainErrors.NewAppError(
			fmt.Errorf("recipient list is empty"),
			domainErrors.ValidationError)
	}
	if len(recipients) > domainBatch.MaxRecipients {
		return domainErrors.NewAppError(
			fmt.Errorf("recipient list exceeds %d entries", domainBatch.MaxRecipients),
			domainErrors.ValidationError)
	}
	return nil
}

func checkContentBounds(content string) error {
	if len(content) == 0 {
		return domainErrors.NewAppError(
			fmt.Errorf("content is empty"),
			domainErrors.ValidationError)
	}
	if len(content) > domainBatch.MaxContentBytes {
		return domainErrors.NewAppError(
			fmt.Errorf("content exceeds %d bytes", domainBatch.MaxContentBytes),
			domainErrors.ValidationError)
	}
	return nil
}

// filterRecipients drops the null identity and the sender. Duplicates among
// the survivors are kept; the delivery slots collapse them to one entry each.
func filterRecipients(sender string, recipients []string) []string {
	filtered := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		if recipient == domainBatch.NullIdentity || recipient == sender {
			continue
		}
		filtered = append(filtered, recipient)
	}
	return filtered
}

// buildNotifications assembles the BatchDispatched record plus, for explicit
// recipient lists, one RecipientAdded record per surviving entry.
func buildNotifications(batch *domainBatch.Batch, recipientEvents bool) []domainNotification.Record {
	payload, _ := sjson.Set("", "id", batch.ID)
	payload, _ = sjson.Set(payload, "sender", batch.Sender)
	payload, _ = sjson.Set(payload, "recipients", batch.Recipients)
	payload, _ = sjson.Set(payload, "content", batch.Content)
	payload, _ = sjson.Set(payload, "timestamp", batch.Timestamp)
	payload, _ = sjson.Set(payload, "resourceUsed", batch.ResourceUsed)

	records := []domainNotification.Record{{
		Kind:    domainNotification.KindBatchDispatched,
		Payload: payload,
	}}

	if !recipientEvents {
		return records
	}

	for _, recipient := range batch.Recipients {
		recipientPayload, _ := sjson.Set("", "batchId", batch.ID)
		recipientPayload, _ = sjson.Set(recipientPayload, "recipient", recipient)
		records = append(records, domainNotification.Record{
			Kind:    domainNotification.KindRecipientAdded,
			Payload: recipientPayload,
		})
	}
	return records
}

func observe(entry string, committed *domainBatch.Batch, err error) {
	if err != nil {
		metrics.ObserveDispatch(entry, 0, err)
		return
	}
	metrics.ObserveDispatch(entry, committed.ResourceUsed, nil)
}
