package users

import (
	"context"
	"strings"
	"time"

	"petvet/internal/authz"
	"petvet/internal/platform/apperr"

	"github.com/google/uuid"
)

// bcrypt ignora/rechaza lo que pase de 72 bytes.
const maxPasswordBytes = 72

type Service struct {
	repo   Repository
	hasher Hasher
	now    func() time.Time
}

func NewService(repo Repository, hasher Hasher) *Service {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &Service{
		repo:   repo,
		hasher: hasher,
		now:    time.Now,
	}
}

type RegisterInput struct {
	Username string
	Password string
	Type     string // owner (default) | vet
}

// Register crea una cuenta no-admin.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if err := authz.Authorize(nil, authz.ActionRegister, authz.Resource{}); err != nil {
		return User{}, err
	}
	return s.create(ctx, in.Username, in.Password, string(authz.RoleUser), in.Type)
}

// Authenticate valida credenciales. Usuario inexistente y password incorrecta
// devuelven el mismo error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, apperr.Validation("username and password are required")
	}

	invalid := apperr.Unauthenticated("invalid username or password").WithCode("invalid_credentials")

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return User{}, invalid
		}
		return User{}, err
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return User{}, invalid
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, id *authz.Identity) ([]User, error) {
	if err := authz.Authorize(id, authz.ActionUserManage, authz.Resource{}); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

type AdminCreateInput struct {
	Username string
	Password string
	Role     string // default user
	Type     string // default owner
}

func (s *Service) Create(ctx context.Context, id *authz.Identity, in AdminCreateInput) (User, error) {
	if err := authz.Authorize(id, authz.ActionUserManage, authz.Resource{}); err != nil {
		return User{}, err
	}
	return s.create(ctx, in.Username, in.Password, in.Role, in.Type)
}

// AdminUpdateInput: campos vacíos se mantienen. Password vacía no se toca.
type AdminUpdateInput struct {
	Username string
	Password string
	Role     string
	Type     string
}

func (s *Service) Update(ctx context.Context, id *authz.Identity, userID string, in AdminUpdateInput) (User, error) {
	if err := authz.Authorize(id, authz.ActionUserManage, authz.Resource{}); err != nil {
		return User{}, err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	if v := strings.TrimSpace(in.Username); v != "" {
		u.Username = v
	}
	if v := strings.TrimSpace(in.Role); v != "" {
		role := authz.Role(v)
		if !role.Valid() {
			return User{}, apperr.Validation("invalid role")
		}
		u.Role = role
	}
	if v := strings.TrimSpace(in.Type); v != "" {
		typ := authz.UserType(v)
		if !typ.Valid() {
			return User{}, apperr.Validation("invalid account type")
		}
		u.Type = typ
	}
	if in.Password != "" {
		if len(in.Password) > maxPasswordBytes {
			return User{}, apperr.Validation("password is too long")
		}
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return User{}, apperr.Wrap(apperr.KindInternal, "hash password", err)
		}
		u.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, usernameConflict(err)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id *authz.Identity, userID string) error {
	if err := authz.Authorize(id, authz.ActionUserManage, authz.Resource{}); err != nil {
		return err
	}
	if id.ID == userID {
		return apperr.Validation("admins cannot delete their own account").WithCode("self_delete")
	}
	return s.repo.Delete(ctx, userID)
}

// Current relee el usuario de una sesión: rol y tipo vigentes, no los del token.
// Usuario borrado => Unauthenticated.
func (s *Service) Current(ctx context.Context, userID string) (*authz.Identity, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Unauthenticated("session user no longer exists")
	}
	if err != nil {
		return nil, err
	}
	return u.Identity(), nil
}

// EnsureAdmin crea el admin de arranque si no existe. Devuelve true si lo creó.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return false, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return false, err
	}

	_, err = s.create(ctx, username, password, string(authz.RoleAdmin), string(authz.TypeOwner))
	if apperr.Is(err, apperr.KindConflict) {
		// Otra instancia lo creó en paralelo.
		return false, nil
	}
	return err == nil, err
}

func (s *Service) create(ctx context.Context, username, password, role, typ string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return User{}, apperr.Validation("username and password are required")
	}
	if len(password) > maxPasswordBytes {
		return User{}, apperr.Validation("password is too long")
	}

	r := authz.Role(strings.TrimSpace(role))
	if r == "" {
		r = authz.RoleUser
	}
	if !r.Valid() {
		return User{}, apperr.Validation("invalid role")
	}

	t := authz.UserType(strings.TrimSpace(typ))
	if t == "" {
		t = authz.TypeOwner
	}
	if !t.Valid() {
		return User{}, apperr.Validation("invalid account type")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return User{}, apperr.Wrap(apperr.KindInternal, "hash password", err)
	}

	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         r,
		Type:         t,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, usernameConflict(err)
	}
	return u, nil
}

func usernameConflict(err error) error {
	if e, ok := apperr.As(err); ok && e.Kind == apperr.KindConflict {
		return apperr.Conflict("username already exists").WithCode("username_taken")
	}
	return err
}
