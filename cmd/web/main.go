// @title           skymarket API
// @version         1.0
// @description     Бэкенд площадки объявлений: объявления, комментарии, профили.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /

package main

import "skymarket_backend/internal/app"

func main() {
	app.Run()
}
