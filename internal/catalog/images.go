// Package catalog enumerates the static product imagery served under /static.
package catalog

import (
	"fmt"
	"math/rand/v2"
)

// Folder names an image group
type Folder string

const (
	FolderAI       Folder = "ai"
	FolderMilitary Folder = "military"
	FolderPearl    Folder = "pearl"
)

const (
	militaryCount = 11
	pearlCount    = 4

	fallbackImage = "/military/1.png"
)

// Image describes one static asset
type Image struct {
	Src    string `json:"src"`
	Folder Folder `json:"folder"`
	Index  int    `json:"index"`
	Name   string `json:"name"`
}

var all = buildAll()

func buildAll() []Image {
	images := []Image{{
		Src:    "/ai/Gemini_Generated_Image_40j16140j16140j1.png",
		Folder: FolderAI,
		Index:  0,
		Name:   "Gemini_Generated_Image_40j16140j16140j1.png",
	}}
	for i := 1; i <= militaryCount; i++ {
		images = append(images, numbered(FolderMilitary, i))
	}
	for i := 1; i <= pearlCount; i++ {
		images = append(images, numbered(FolderPearl, i))
	}
	return images
}

func numbered(folder Folder, i int) Image {
	name := fmt.Sprintf("%d.png", i)
	return Image{
		Src:    fmt.Sprintf("/%s/%s", folder, name),
		Folder: folder,
		Index:  i,
		Name:   name,
	}
}

// All returns every image in catalog order
func All() []Image {
	out := make([]Image, len(all))
	copy(out, all)
	return out
}

// ByFolder returns the images of one folder in index order
func ByFolder(folder Folder) []Image {
	var out []Image
	for _, img := range all {
		if img.Folder == folder {
			out = append(out, img)
		}
	}
	return out
}

// Random picks any image
func Random() Image {
	return all[rand.IntN(len(all))]
}

// RandomFromFolder picks an image from one folder. ok is false for an
// unknown folder.
func RandomFromFolder(folder Folder) (Image, bool) {
	images := ByFolder(folder)
	if len(images) == 0 {
		return Image{}, false
	}
	return images[rand.IntN(len(images))], true
}

// DefaultProductImage assigns a stable product photo to products that have
// none of their own.
func DefaultProductImage(productID int64) string {
	pool := append(ByFolder(FolderMilitary), ByFolder(FolderPearl)...)
	if len(pool) == 0 {
		return fallbackImage
	}
	idx := productID % int64(len(pool))
	if idx < 0 {
		idx = -idx
	}
	return pool[idx].Src
}
