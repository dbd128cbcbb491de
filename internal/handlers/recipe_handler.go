package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ProsperCoded/nourish-box-sub000/internal/helpers"
	"github.com/ProsperCoded/nourish-box-sub000/internal/models"
)

func CreateRecipe(c *gin.Context) {
	name := c.PostForm("name")
	description := c.PostForm("description")

	priceStr := c.PostForm("price")
	price, err := helpers.StringToInt(priceStr)
	if err != nil || price <= 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid price.")
		return
	}

	servings := 1
	if servingsStr := c.PostForm("servings"); servingsStr != "" {
		servings, err = helpers.StringToInt(servingsStr)
		if err != nil || servings <= 0 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid servings.")
			return
		}
	}

	cookTime := 0
	if cookTimeStr := c.PostForm("cook_time"); cookTimeStr != "" {
		cookTime, err = helpers.StringToInt(cookTimeStr)
		if err != nil || cookTime < 0 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid cook time.")
			return
		}
	}

	var categories []string
	for i := 0; ; i++ {
		category := c.PostForm(fmt.Sprintf("categories[%d]", i))
		if category == "" {
			break
		}
		categories = append(categories, category)
	}

	if name == "" || description == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var recipeCategories []models.Category
	for _, categoryName := range categories {
		var category models.Category
		if err := gormDB.Where("name = ?", categoryName).FirstOrCreate(&category, models.Category{Name: categoryName}).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error processing categories.")
			return
		}
		recipeCategories = append(recipeCategories, category)
	}

	recipe := models.Recipe{
		Name:        name,
		Description: description,
		Price:       price,
		Servings:    servings,
		CookTime:    cookTime,
		Categories:  recipeCategories,
	}

	imageFile, err := c.FormFile("image")
	if err == nil {
		imagePath, err := helpers.UploadFile(c, imageFile, "recipe_images")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		recipe.ImagePath = imagePath
	}

	if err := gormDB.Create(&recipe).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create recipe.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Recipe created successfully.",
		"recipe_id": recipe.ID,
	})
}

func GetRecipe(c *gin.Context) {
	recipeID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var recipe models.Recipe
	if err := gormDB.Preload("Categories").Where("id = ?", recipeID).First(&recipe).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Recipe not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving recipe.")
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func ListRecipes(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")
	categoryName := c.Query("category")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}

	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.Recipe{})
	if categoryName != "" {
		query = query.Joins("JOIN recipe_categories ON recipe_categories.recipe_id = recipes.id").
			Joins("JOIN categories ON categories.id = recipe_categories.category_id").
			Where("categories.name = ?", categoryName)
	}

	var totalCount int64
	query.Count(&totalCount)

	var recipes []models.Recipe
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Categories").Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&recipes).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving recipes.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes":     recipes,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func UpdateRecipe(c *gin.Context) {
	recipeID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var recipe models.Recipe
	if err := gormDB.Where("id = ?", recipeID).First(&recipe).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Recipe not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding recipe.")
		return
	}

	if name := c.PostForm("name"); name != "" {
		recipe.Name = name
	}
	if description := c.PostForm("description"); description != "" {
		recipe.Description = description
	}
	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := helpers.StringToInt(priceStr)
		if err != nil || price <= 0 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid price.")
			return
		}
		recipe.Price = price
	}
	if servingsStr := c.PostForm("servings"); servingsStr != "" {
		servings, err := helpers.StringToInt(servingsStr)
		if err != nil || servings <= 0 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid servings.")
			return
		}
		recipe.Servings = servings
	}
	if cookTimeStr := c.PostForm("cook_time"); cookTimeStr != "" {
		cookTime, err := helpers.StringToInt(cookTimeStr)
		if err != nil || cookTime < 0 {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid cook time.")
			return
		}
		recipe.CookTime = cookTime
	}

	var categories []string
	for i := 0; ; i++ {
		category := c.PostForm(fmt.Sprintf("categories[%d]", i))
		if category == "" {
			break
		}
		categories = append(categories, category)
	}

	imageFile, err := c.FormFile("image")
	if err == nil {
		imagePath, uploadErr := helpers.UploadFile(c, imageFile, "recipe_images")
		if uploadErr != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, uploadErr.Error())
			return
		}
		if recipe.ImagePath != "" {
			if err := helpers.DeleteFile(recipe.ImagePath); err != nil {
				fmt.Printf("Error deleting old recipe image: %v\n", err)
			}
		}
		recipe.ImagePath = imagePath
	}

	if err := gormDB.Save(&recipe).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update recipe.")
		return
	}

	if len(categories) > 0 {
		var updatedCategories []models.Category
		for _, categoryName := range categories {
			var category models.Category
			if err := gormDB.Where("name = ?", categoryName).FirstOrCreate(&category, models.Category{Name: categoryName}).Error; err != nil {
				helpers.RespondWithError(c, http.StatusInternalServerError, "Error processing categories.")
				return
			}
			updatedCategories = append(updatedCategories, category)
		}

		if err := gormDB.Model(&recipe).Association("Categories").Replace(updatedCategories); err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error updating categories.")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe updated successfully.",
		"recipe":  recipe,
	})
}

func DeleteRecipe(c *gin.Context) {
	recipeID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Where("id = ?", recipeID).Delete(&models.Recipe{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete recipe.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Recipe not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe deleted successfully.",
	})
}
