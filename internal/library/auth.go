package library

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmcdole/shelf/internal/domain"
)

// AuthenticateStudent checks a username/password pair against the student
// list. Plaintext passwords left over in old data still match and are
// replaced with a hash on success.
func (s *Service) AuthenticateStudent(username, password string) (domain.Student, error) {
	s.mu.RLock()
	idx := -1
	var student domain.Student
	for i, st := range s.students {
		if st.Username == username {
			idx, student = i, st
			break
		}
	}
	s.mu.RUnlock()

	if idx < 0 || !checkPassword(student.Password, password) {
		s.logger.Debug("student login rejected", "username", username)
		return domain.Student{}, domain.ErrInvalidCredentials
	}

	if !isHashed(student.Password) {
		s.upgradePassword(student.ID, password)
	}
	return s.studentByID(student.ID), nil
}

// AuthenticateAdmin checks the fixed admin credential pair.
func (s *Service) AuthenticateAdmin(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	if !userOK || !passOK {
		s.logger.Debug("admin login rejected", "username", username)
		return domain.ErrInvalidCredentials
	}
	return nil
}

func (s *Service) upgradePassword(studentID, password string) {
	hashed, err := s.hashPassword(password)
	if err != nil {
		s.logger.Warn("failed to hash legacy password", "studentID", studentID, "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.studentIndex(studentID); i >= 0 {
		s.students[i].Password = hashed
		s.persistStudents()
		s.logger.Info("upgraded legacy password", "studentID", studentID)
	}
}

func (s *Service) studentByID(id string) domain.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.studentIndex(id); i >= 0 {
		return s.students[i]
	}
	return domain.Student{}
}

func (s *Service) hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// hashSeedPasswords hashes the sample students. A hashing failure leaves the
// plaintext in place, which AuthenticateStudent still accepts.
func (s *Service) hashSeedPasswords(students []domain.Student) []domain.Student {
	for i := range students {
		hashed, err := s.hashPassword(students[i].Password)
		if err != nil {
			s.logger.Warn("failed to hash seed password", "studentID", students[i].ID, "error", err)
			continue
		}
		students[i].Password = hashed
	}
	return students
}

func isHashed(password string) bool {
	return strings.HasPrefix(password, "$2")
}

func checkPassword(stored, given string) bool {
	if isHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
