package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/zeroonecreation/classify/core/admin"
)

type adminRepository struct {
	db *sqlx.DB
}

var _ admin.Repository = (*adminRepository)(nil) // interface compliance check

func NewAdminRepository(db *sqlx.DB) admin.Repository {
	return &adminRepository{db: db}
}

func (repo *adminRepository) CheckEmailUniqueness(email string) error {
	var exists bool
	err := repo.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM admin WHERE email = $1)`, email)
	if err != nil {
		return errors.Wrap(err, "checking admin email")
	}
	if exists {
		return admin.ErrEmailExists
	}
	return nil
}

func (repo *adminRepository) CreateAdmin(adm admin.Admin) (admin.Admin, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO admin (id, name, email, password_hash, created_at, updated_at)
		VALUES (:id, :name, :email, :password_hash, :created_at, :updated_at)`, adm)
	if err != nil {
		return admin.Admin{}, errors.Wrap(err, "inserting admin")
	}
	return adm, nil
}

func (repo *adminRepository) QueryAllAdmins() ([]admin.Admin, error) {
	var admins []admin.Admin
	err := repo.db.Select(&admins, `SELECT * FROM admin ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying admins")
	}
	return admins, nil
}

func (repo *adminRepository) GetAdminByID(id string) (admin.Admin, error) {
	var adm admin.Admin
	err := repo.db.Get(&adm, `SELECT * FROM admin WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return admin.Admin{}, admin.ErrNotFound
	}
	if err != nil {
		return admin.Admin{}, errors.Wrap(err, "getting admin by ID")
	}
	return adm, nil
}

func (repo *adminRepository) GetAdminByEmail(email string) (admin.Admin, error) {
	var adm admin.Admin
	err := repo.db.Get(&adm, `SELECT * FROM admin WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return admin.Admin{}, admin.ErrNotFound
	}
	if err != nil {
		return admin.Admin{}, errors.Wrap(err, "getting admin by email")
	}
	return adm, nil
}

func (repo *adminRepository) UpdateAdmin(adm admin.Admin) (admin.Admin, error) {
	res, err := repo.db.NamedExec(`
		UPDATE admin
		SET name = :name, email = :email, password_hash = :password_hash, updated_at = :updated_at
		WHERE id = :id`, adm)
	if err != nil {
		return admin.Admin{}, errors.Wrap(err, "updating admin")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return admin.Admin{}, admin.ErrNotFound
	}
	return adm, nil
}

func (repo *adminRepository) DeleteAdmin(id string) error {
	res, err := repo.db.Exec(`DELETE FROM admin WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting admin")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return admin.ErrNotFound
	}
	return nil
}
