/*
weatherbot is a Telegram chat bot which answers questions about the current
weather. A language model agent decides when to call a single get_weather
tool, which is published over the Model Context Protocol and backed by the
Open-Meteo geocoding and forecast APIs.

The root package holds the error codes shared by all the packages under pkg/.
*/
package weatherbot
