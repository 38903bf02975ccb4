package group

import (
	"errors"
	"time"

	domainErrors "dispatch-ledger-api/src/domain/errors"
	domainGroup "dispatch-ledger-api/src/domain/group"
	logger "dispatch-ledger-api/src/infrastructure/logger"
	"dispatch-ledger-api/src/infrastructure/repository/mysql/counter"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Group is the database model for recipient groups.
type Group struct {
	ID            uint64    `gorm:"primaryKey"`
	Name          string    `gorm:"column:name;size:255"`
	Creator       string    `gorm:"column:creator;size:128;index"`
	CreatedAtUnix uint64    `gorm:"column:created_at_unix"`
	Active        bool      `gorm:"column:active"`
	CreatedAt     time.Time `gorm:"autoCreateTime:mili"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime:mili"`
}

func (Group) TableName() string {
	return "message_groups"
}

// GroupMember is one membership row. The composite primary key is the
// isMember fast lookup; Position keeps the member sequence order.
type GroupMember struct {
	GroupID  uint64 `gorm:"column:group_id;primaryKey;autoIncrement:false"`
	Member   string `gorm:"column:member;primaryKey;size:128"`
	Position int    `gorm:"column:position;not null"`
}

func (GroupMember) TableName() string {
	return "group_members"
}

// GroupRepositoryInterface defines the interface for group repository operations
type GroupRepositoryInterface interface {
	Create(groupDomain *domainGroup.Group) (*domainGroup.Group, error)
	GetByID(id uint64) (*domainGroup.Group, error)
	GetMembers(groupID uint64) ([]string, error)
	IsMember(groupID uint64, member string) (bool, error)
	AddMember(groupID uint64, member string) error
	RemoveMember(groupID uint64, member string) error
	GetUserGroupIDs(creator string) ([]uint64, error)
}

type GroupRepository struct {
	DB     *gorm.DB
	Logger *logger.Logger
}

func NewGroupRepository(db *gorm.DB, loggerInstance *logger.Logger) GroupRepositoryInterface {
	return &GroupRepository{DB: db, Logger: loggerInstance}
}

// Create inserts the group and its initial members in one transaction,
// advancing the group id counter.
func (r *GroupRepository) Create(groupDomain *domainGroup.Group) (*domainGroup.Group, error) {
	model := groupFromDomainMapper(groupDomain)

	members := make([]GroupMember, 0, len(groupDomain.Members))
	for i, member := range groupDomain.Members {
		members = append(members, GroupMember{
			GroupID:  groupDomain.ID,
			Member:   member,
			Position: i,
		})
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := counter.Advance(tx, counter.ScopeGroup, groupDomain.ID); err != nil {
			return err
		}
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		if len(members) > 0 {
			if err := tx.Create(&members).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.Logger.Error("Error creating group", zap.Error(err), zap.Uint64("id", groupDomain.ID), zap.String("creator", groupDomain.Creator))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}

	r.Logger.Info("Created group",
		zap.Uint64("id", groupDomain.ID),
		zap.String("creator", groupDomain.Creator),
		zap.Int("members", len(groupDomain.Members)))
	return model.toDomainMapper(groupDomain.Members), nil
}

func (r *GroupRepository) GetByID(id uint64) (*domainGroup.Group, error) {
	var model Group
	err := r.DB.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			r.Logger.Warn("Group not found", zap.Uint64("id", id))
			return nil, domainErrors.NewAppErrorWithType(domainErrors.NotFound)
		}
		r.Logger.Error("Error getting group by ID", zap.Error(err), zap.Uint64("id", id))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}

	members, err := r.GetMembers(id)
	if err != nil {
		return nil, err
	}
	return model.toDomainMapper(members), nil
}

// GetMembers returns the member sequence in position order.
func (r *GroupRepository) GetMembers(groupID uint64) ([]string, error) {
	members := []string{}
	err := r.DB.Model(&GroupMember{}).
		Where("group_id = ?", groupID).
		Order("position asc").
		Pluck("member", &members).Error
	if err != nil {
		r.Logger.Error("Error getting group members", zap.Error(err), zap.Uint64("groupID", groupID))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	return members, nil
}

func (r *GroupRepository) IsMember(groupID uint64, member string) (bool, error) {
	var count int64
	err := r.DB.Model(&GroupMember{}).
		Where("group_id = ? AND member = ?", groupID, member).
		Count(&count).Error
	if err != nil {
		r.Logger.Error("Error checking group membership", zap.Error(err), zap.Uint64("groupID", groupID))
		return false, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	return count > 0, nil
}

func (r *GroupRepository) AddMember(groupID uint64, member string) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&GroupMember{}).Where("group_id = ?", groupID).Count(&count).Error; err != nil {
			return err
		}
		return tx.Create(&GroupMember{
			GroupID:  groupID,
			Member:   member,
			Position: int(count),
		}).Error
	})
	if err != nil {
		r.Logger.Error("Error adding group member", zap.Error(err), zap.Uint64("groupID", groupID), zap.String("member", member))
		return domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	r.Logger.Info("Added group member", zap.Uint64("groupID", groupID), zap.String("member", member))
	return nil
}

// RemoveMember deletes a member with the swap-with-last strategy: the last
// position moves into the removed slot, so member order is not preserved.
func (r *GroupRepository) RemoveMember(groupID uint64, member string) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var removed GroupMember
		if err := tx.Where("group_id = ? AND member = ?", groupID, member).First(&removed).Error; err != nil {
			return err
		}

		var last GroupMember
		if err := tx.Where("group_id = ?", groupID).Order("position desc").First(&last).Error; err != nil {
			return err
		}

		if err := tx.Where("group_id = ? AND member = ?", groupID, member).Delete(&GroupMember{}).Error; err != nil {
			return err
		}

		if last.Member != removed.Member {
			res := tx.Model(&GroupMember{}).
				Where("group_id = ? AND member = ?", groupID, last.Member).
				Update("position", removed.Position)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected != 1 {
				return errors.New("group member sequence changed during removal")
			}
		}
		return nil
	})
	if err != nil {
		r.Logger.Error("Error removing group member", zap.Error(err), zap.Uint64("groupID", groupID), zap.String("member", member))
		return domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	r.Logger.Info("Removed group member", zap.Uint64("groupID", groupID), zap.String("member", member))
	return nil
}

func (r *GroupRepository) GetUserGroupIDs(creator string) ([]uint64, error) {
	ids := []uint64{}
	err := r.DB.Model(&Group{}).
		Where("creator = ?", creator).
		Order("id asc").
		Pluck("id", &ids).Error
	if err != nil {
		r.Logger.Error("Error getting user group ids", zap.Error(err), zap.String("creator", creator))
		return nil, domainErrors.NewAppErrorWithType(domainErrors.RepositoryError)
	}
	return ids, nil
}

func groupFromDomainMapper(g *domainGroup.Group) *Group {
	return &Group{
		ID:            g.ID,
		Name:          g.Name,
		Creator:       g.Creator,
		CreatedAtUnix: g.CreatedAt,
		Active:        g.Active,
	}
}

func (g *Group) toDomainMapper(members []string) *domainGroup.Group {
	return &domainGroup.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   members,
		Creator:   g.Creator,
		CreatedAt: g.CreatedAtUnix,
		Active:    g.Active,
	}
}
