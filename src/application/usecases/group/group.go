package group

import (
	"fmt"
	"sync"
	"time"

	domainBatch "dispatch-ledger-api/src/domain/batch"
	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainGroup "dispatch-ledger-api/src/domain/group"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	counterRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/counter"
	groupRepo "dispatch-ledger-api/src/infrastructure/repository/mysql/group"

	"go.uber.org/zap"
)

// IGroupUseCase defines the group registry operations.
type IGroupUseCase interface {
	CreateGroup(creator, name string, members []string) (*domainGroup.Group, error)
	AddMember(caller string, groupID uint64, member string) (*domainGroup.Group, error)
	RemoveMember(caller string, groupID uint64, member string) (*domainGroup.Group, error)
}

type GroupUseCase struct {
	groupRepository   groupRepo.GroupRepositoryInterface
	counterRepository counterRepo.CounterRepositoryInterface
	registerLock      *sync.Mutex
	Logger            *logger.Logger
}

func NewGroupUseCase(
	groupRepository groupRepo.GroupRepositoryInterface,
	counterRepository counterRepo.CounterRepositoryInterface,
	registerLock *sync.Mutex,
	loggerInstance *logger.Logger,
) IGroupUseCase {
	return &GroupUseCase{
		groupRepository:   groupRepository,
		counterRepository: counterRepository,
		registerLock:      registerLock,
		Logger:            loggerInstance,
	}
}

// CreateGroup registers a new recipient group owned by the caller. The
// initial member list is deduplicated: null identities and repeated addresses
// are dropped.
func (u *GroupUseCase) CreateGroup(creator, name string, members []string) (*domainGroup.Group, error) {
	if name == "" {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("group name must not be empty"),
			domainErrors.ValidationError)
	}
	if len(members) > domainGroup.MaxMembers {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("group member list exceeds %d entries", domainGroup.MaxMembers),
			domainErrors.ValidationError)
	}

	unique := dedupeMembers(members)

	u.registerLock.Lock()
	defer u.registerLock.Unlock()

	id, err := u.counterRepository.Current(counterRepo.ScopeGroup)
	if err != nil {
		return nil, err
	}

	created, err := u.groupRepository.Create(&domainGroup.Group{
		ID:        id,
		Name:      name,
		Members:   unique,
		Creator:   creator,
		CreatedAt: uint64(time.Now().Unix()),
		Active:    true,
	})
	if err != nil {
		return nil, err
	}

	u.Logger.Info("Group created",
		zap.Uint64("id", created.ID),
		zap.String("creator", creator),
		zap.Int("members", len(created.Members)))
	return created, nil
}

func (u *GroupUseCase) AddMember(caller string, groupID uint64, member string) (*domainGroup.Group, error) {
	u.registerLock.Lock()
	defer u.registerLock.Unlock()

	group, err := u.groupRepository.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if err := checkCreator(group, caller); err != nil {
		u.Logger.Warn("Member add rejected: caller is not the creator",
			zap.Uint64("groupID", groupID), zap.String("caller", caller))
		return nil, err
	}

	if member == domainBatch.NullIdentity {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("member must not be the null identity"),
			domainErrors.ValidationError)
	}
	if len(group.Members) >= domainGroup.MaxMembers {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("group %d already has %d members", groupID, domainGroup.MaxMembers),
			domainErrors.ValidationError)
	}

	isMember, err := u.groupRepository.IsMember(groupID, member)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("%s is already a member of group %d", member, groupID),
			domainErrors.ValidationError)
	}

	if err := u.groupRepository.AddMember(groupID, member); err != nil {
		return nil, err
	}
	return u.groupRepository.GetByID(groupID)
}

func (u *GroupUseCase) RemoveMember(caller string, groupID uint64, member string) (*domainGroup.Group, error) {
	u.registerLock.Lock()
	defer u.registerLock.Unlock()

	group, err := u.groupRepository.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if err := checkCreator(group, caller); err != nil {
		u.Logger.Warn("Member removal rejected: caller is not the creator",
			zap.Uint64("groupID", groupID), zap.String("caller", caller))
		return nil, err
	}

	isMember, err := u.groupRepository.IsMember(groupID, member)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, domainErrors.NewAppError(
			fmt.Errorf("%s is not a member of group %d", member, groupID),
			domainErrors.ValidationError)
	}

	if err := u.groupRepository.RemoveMember(groupID, member); err != nil {
		return nil, err
	}
	return u.groupRepository.GetByID(groupID)
}

// checkCreator is the creator-only guard shared by membership edits.
func checkCreator(group *domainGroup.Group, caller string) error {
	if group.Creator != caller {
		return domainErrors.NewAppError(
			fmt.Errorf("only the creator of group %d may edit its members", group.ID),
			domainErrors.NotAuthorized)
	}
	return nil
}

func dedupeMembers(members []string) []string {
	seen := make(map[string]bool, len(members))
	unique := make([]string, 0, len(members))
	for _, member := range members {
		if member == domainBatch.NullIdentity || seen[member] {
			continue
		}
		seen[member] = true
		unique = append(unique, member)
	}
	return unique
}
