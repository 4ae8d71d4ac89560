package local

import (
	"context"
	"sort"
	"strings"

	domainErrors "github.com/polkiloo/membership/internal/domain/errors"
	"github.com/polkiloo/membership/internal/domain/model"
)

func (u userRecord) toModel() model.User {
	return model.User{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func recordFromModel(u model.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (r *userRepository) Create(ctx context.Context, user model.User) (*model.User, error) {
	err := r.store.update(ctx, func(doc *document) error {
		for _, existing := range doc.Users {
			if strings.EqualFold(existing.Email, user.Email) {
				return domainErrors.ErrAlreadyExists
			}
		}
		if doc.NextUserID == 0 {
			doc.NextUserID = 1
		}
		user.ID = doc.NextUserID
		doc.NextUserID++
		doc.Users = append(doc.Users, recordFromModel(user))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(ctx, func(u userRecord) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.find(ctx, func(u userRecord) bool { return u.ID == id })
}

func (r *userRepository) find(ctx context.Context, match func(userRecord) bool) (*model.User, error) {
	var found model.User
	err := r.store.view(ctx, func(doc *document) error {
		for _, u := range doc.Users {
			if match(u) {
				found = u.toModel()
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var result []model.User
	err := r.store.view(ctx, func(doc *document) error {
		for _, u := range doc.Users {
			result = append(result, u.toModel())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *userRepository) Update(ctx context.Context, user model.User) (*model.User, error) {
	var updated model.User
	err := r.store.update(ctx, func(doc *document) error {
		for i, u := range doc.Users {
			if u.ID != user.ID {
				continue
			}
			doc.Users[i].FullName = user.FullName
			doc.Users[i].Role = user.Role
			updated = doc.Users[i].toModel()
			return nil
		}
		return domainErrors.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return r.store.update(ctx, func(doc *document) error {
		for i, u := range doc.Users {
			if u.ID == id {
				doc.Users = append(doc.Users[:i], doc.Users[i+1:]...)
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
}
