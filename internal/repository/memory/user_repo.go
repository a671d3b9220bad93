package memory

import (
	"context"

	"Office_Hub/internal/model"
)

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return conflict()
		}
	}
	user.ID = newID(user.ID)
	user.CreatedAt = r.s.now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, errNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByLogin(_ context.Context, login string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == login || u.Email == login {
			return &u, nil
		}
	}
	return nil, errNotFound
}

func (r *UserRepository) ExistsUsernameOrEmail(_ context.Context, username, email string) (bool, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var nameTaken, emailTaken bool
	for _, u := range r.s.users {
		nameTaken = nameTaken || u.Username == username
		emailTaken = emailTaken || u.Email == email
	}
	return nameTaken, emailTaken, nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, id string, fields map[string]any) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "avatar":
			u.Avatar = v.(string)
		}
	}
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.Password = hash
		r.s.users[id] = u
	}
	return nil
}
