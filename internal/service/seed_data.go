package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/domain"
)

func seedTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SeedAuthors returns the initial catalog authors.
func SeedAuthors() []*domain.Author {
	return []*domain.Author{
		{
			ID:        uuid.MustParse("229d1271-cc44-45ef-a742-d4ebca43db66"),
			Name:      "J.K. Rowling",
			Bio:       "J.K. Rowling is a British author, philanthropist, and film producer. She is best known for her Harry Potter series, which has sold more than 500 million copies worldwide and has been translated into 80 languages.",
			CreatedAt: seedTime("2025-05-30T14:01:13.000Z"),
		},
		{
			ID:        uuid.MustParse("0108cfc4-83a4-4678-ab5b-da52f2f9e3bf"),
			Name:      "C.S. Lewis",
			Bio:       "C.S. Lewis is a British author, philosopher, and theologian. He is best known for his Chronicles of Narnia series, which has sold more than 100 million copies worldwide and has been translated into 80 languages.",
			CreatedAt: seedTime("2025-05-30T14:14:02.303Z"),
		},
		{
			ID:        uuid.MustParse("9270e63d-89ae-4d60-992a-5224265d2456"),
			Name:      "Stephen King",
			Bio:       "Stephen King is an American author of horror, supernatural fiction, suspense, and fantasy. He is best known for his novel The Shining, which has sold more than 500 million copies worldwide and has been translated into 80 languages.",
			CreatedAt: seedTime("2025-05-30T14:13:42.503Z"),
		},
		{
			ID:        uuid.MustParse("fd015f84-abc2-44f0-8c92-61549691a15f"),
			Name:      "Dan Brown",
			Bio:       "Dan Brown is an American author of mystery and thriller novels. He is best known for his novel The Da Vinci Code, which has sold more than 500 million copies worldwide and has been translated into 80 languages.",
			CreatedAt: seedTime("2025-05-30T14:17:41.169Z"),
		},
	}
}

// SeedBooks returns the initial catalog books. Each references one of
// SeedAuthors.
func SeedBooks() []*domain.Book {
	authorID := func(s string) *uuid.UUID {
		id := uuid.MustParse(s)
		return &id
	}

	return []*domain.Book{
		{
			ID:           uuid.MustParse("3889c9c8-7a12-40e9-8f84-29c9ecb93495"),
			Title:        "Harry Potter and the Philosopher's Stone",
			ShortSummary: "The Philosopher's Stone is a fantasy novel written by British author J.K. Rowling and the first in the Harry Potter series. The book was first published in 1997 and has since become a global phenomenon, selling over 500 million copies worldwide and being translated into 80 languages.",
			ImagePreview: "/harry-potter-and-the-philosophers-stone.jpg",
			AuthorID:     authorID("229d1271-cc44-45ef-a742-d4ebca43db66"),
			CreatedAt:    seedTime("2025-05-30T14:14:59.051Z"),
		},
		{
			ID:           uuid.MustParse("3d5dcd3c-3fb5-4aa7-b2ea-1af0a4531745"),
			Title:        "The Chronicles of Narnia: The Lion, the Witch and the Wardrobe",
			ShortSummary: "The Chronicles of Narnia: The Lion, the Witch and the Wardrobe is a fantasy novel written by British author C.S. Lewis and the first in the Chronicles of Narnia series. The book was first published in 1950 and has since become a global phenomenon, selling over 100 million copies worldwide and being translated into 80 languages.",
			ImagePreview: "/the-chronicles-of-narnia-the-lion-the-witch-and-the-wardrobe.jpg",
			AuthorID:     authorID("0108cfc4-83a4-4678-ab5b-da52f2f9e3bf"),
			CreatedAt:    seedTime("2025-05-30T14:18:18.106Z"),
		},
		{
			ID:           uuid.MustParse("d0aa7c55-79a3-46d2-b94e-5d3ee26951f8"),
			Title:        "The Shining",
			ShortSummary: "The Shining is a horror novel written by American author Stephen King and the first in the Shining series. The book was first published in 1977 and has since become a global phenomenon, selling over 500 million copies worldwide and being translated into 80 languages.",
			ImagePreview: "/the-shining.jpg",
			AuthorID:     authorID("9270e63d-89ae-4d60-992a-5224265d2456"),
			CreatedAt:    seedTime("2025-05-30T14:19:30.570Z"),
		},
		{
			ID:           uuid.MustParse("7f3df1d6-9ad3-4170-a690-2a793bfb06c0"),
			Title:        "The Da Vinci Code",
			ShortSummary: "The Da Vinci Code is a mystery novel written by American author Dan Brown and the first in the Da Vinci Code series. The book was first published in 2003 and has since become a global phenomenon, selling over 500 million copies worldwide and being translated into 80 languages.",
			ImagePreview: "/the-da-vinci-code.jpg",
			AuthorID:     authorID("fd015f84-abc2-44f0-8c92-61549691a15f"),
			CreatedAt:    seedTime("2025-05-30T14:19:30.570Z"),
		},
	}
}
