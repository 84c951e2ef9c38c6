package library

import "github.com/mmcdole/shelf/internal/domain"

const seedStudentPassword = "password123"

// seedBooks returns the catalog a fresh library starts with.
func seedBooks() []domain.Book {
	return []domain.Book{
		{
			ID: "1", Title: "To Kill a Mockingbird", Author: "Harper Lee",
			ISBN: "978-0-06-112008-4", Category: "Fiction",
			TotalCopies: 5, AvailableCopies: 3, PublishedYear: 1960,
		},
		{
			ID: "2", Title: "Introduction to Algorithms", Author: "Thomas H. Cormen",
			ISBN: "978-0-262-03384-8", Category: "Computer Science",
			TotalCopies: 3, AvailableCopies: 2, PublishedYear: 2009,
		},
		{
			ID: "3", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald",
			ISBN: "978-0-7432-7356-5", Category: "Fiction",
			TotalCopies: 6, AvailableCopies: 4, PublishedYear: 1925,
		},
		{
			ID: "4", Title: "Calculus: Early Transcendentals", Author: "James Stewart",
			ISBN: "978-1-285-74155-0", Category: "Mathematics",
			TotalCopies: 4, AvailableCopies: 1, PublishedYear: 2015,
		},
		{
			ID: "5", Title: "Pride and Prejudice", Author: "Jane Austen",
			ISBN: "978-0-14-143951-8", Category: "Fiction",
			TotalCopies: 3, AvailableCopies: 2, PublishedYear: 1813,
		},
	}
}

// seedStudents returns the sample members. Passwords are hashed by the caller.
func seedStudents() []domain.Student {
	return []domain.Student{
		{ID: "student-1", Name: "John Doe", Username: "johndoe", Password: seedStudentPassword, RollNo: "CS2021001"},
		{ID: "student-2", Name: "Jane Smith", Username: "janesmith", Password: seedStudentPassword, RollNo: "CS2021002"},
	}
}
