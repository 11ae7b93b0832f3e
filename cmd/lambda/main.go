// Command lambda serves the custom tea endpoint as an AWS Lambda or Netlify
// function behind an API Gateway proxy event.
package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/naghmatea/site/internal/app"
)

func main() {
	application := app.New()
	lambda.Start(application.LambdaHandler())
}
